package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Back-office roles. Drivers are a separate collection and never log in here.
const (
	RoleAdmin      = "admin"
	RoleDispatcher = "dispatcher"
	RoleManager    = "manager"
)

// User matches a document in the "users" collection. The two token
// hash/expiry pairs are independent: an email verification token must
// never satisfy a password reset lookup and vice versa.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`
	Role     string             `bson:"role" json:"role"`
	Avatar   string             `bson:"avatar,omitempty" json:"avatar,omitempty"`

	EmailVerifiedAt          *time.Time `bson:"emailVerifiedAt,omitempty" json:"emailVerifiedAt,omitempty"`
	EmailVerificationToken   string     `bson:"emailVerificationToken,omitempty" json:"-"`
	EmailVerificationExpires *time.Time `bson:"emailVerificationExpires,omitempty" json:"-"`
	PasswordResetToken       string     `bson:"passwordResetToken,omitempty" json:"-"`
	PasswordResetExpires     *time.Time `bson:"passwordResetExpires,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ValidRole reports whether role is one of the known back-office roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleDispatcher || role == RoleManager
}
