package handlers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fleetdesk-api-server/internal/models"
	"fleetdesk-api-server/internal/s3"
)

type DriverHandler struct {
	DB         *mongo.Database
	S3Uploader *s3.Uploader
}

type CreateDriverRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone" binding:"required"`
	Status         string `json:"status"`
	EmployeeID     string `json:"employeeId"`
	EmploymentType string `json:"employmentType"`
	Vehicle        string `json:"vehicle"`
	LicenseNumber  string `json:"licenseNumber" binding:"required"`
	LicenseExpiry  string `json:"licenseExpiry" binding:"required"`
	Avatar         string `json:"avatar"`
}

type UpdateDriverRequest struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Status         string `json:"status"`
	EmployeeID     string `json:"employeeId"`
	EmploymentType string `json:"employmentType"`
	Vehicle        string `json:"vehicle"`
	LicenseNumber  string `json:"licenseNumber"`
	LicenseExpiry  string `json:"licenseExpiry"`
	Avatar         string `json:"avatar"`
}

type UpdateLocationRequest struct {
	Coordinates []float64 `json:"coordinates" binding:"required"`
}

func (h *DriverHandler) GetAllDrivers(c *gin.Context) {
	status := c.Query("status")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if limit < 1 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}
	skip := int64((page - 1) * limit)

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	collection := h.DB.Collection("drivers")

	total, err := collection.CountDocuments(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count drivers"})
		return
	}

	cursor, err := collection.Find(context.Background(), filter,
		options.Find().SetSort(bson.M{"createdAt": -1}).SetSkip(skip).SetLimit(int64(limit)))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query drivers"})
		return
	}
	defer cursor.Close(context.Background())

	var drivers []models.Driver
	if err := cursor.All(context.Background(), &drivers); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode drivers"})
		return
	}
	if drivers == nil {
		drivers = []models.Driver{}
	}

	c.JSON(http.StatusOK, gin.H{
		"drivers":    drivers,
		"pagination": paginate(total, page, limit),
	})
}

func (h *DriverHandler) CreateDriver(c *gin.Context) {
	var req CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	licenseExpiry, err := time.Parse(time.RFC3339, req.LicenseExpiry)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid license expiry date"})
		return
	}

	status := req.Status
	if status == "" {
		status = models.DriverInactive
	}
	if !models.ValidDriverStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid driver status"})
		return
	}

	now := time.Now()
	newDriver := models.Driver{
		Name:           req.Name,
		Email:          strings.ToLower(req.Email),
		Phone:          req.Phone,
		Status:         status,
		EmployeeID:     req.EmployeeID,
		EmploymentType: req.EmploymentType,
		LicenseNumber:  req.LicenseNumber,
		LicenseExpiry:  licenseExpiry,
		Avatar:         req.Avatar,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if req.Vehicle != "" {
		vehicleID, err := primitive.ObjectIDFromHex(req.Vehicle)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle id"})
			return
		}
		newDriver.Vehicle = &vehicleID
	}

	result, err := h.DB.Collection("drivers").InsertOne(context.Background(), newDriver)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Driver with this email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create driver"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newDriver.ID = oid
	}

	c.JSON(http.StatusCreated, newDriver)
}

func (h *DriverHandler) GetDriverByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid driver id"})
		return
	}

	var driver models.Driver
	err = h.DB.Collection("drivers").FindOne(context.Background(), bson.M{"_id": id}).Decode(&driver)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve driver"})
		}
		return
	}

	c.JSON(http.StatusOK, driver)
}

func (h *DriverHandler) UpdateDriver(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid driver id"})
		return
	}

	var req UpdateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := bson.M{"updatedAt": time.Now()}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Status != "" {
		if !models.ValidDriverStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid driver status"})
			return
		}
		updates["status"] = req.Status
	}
	if req.EmployeeID != "" {
		updates["employeeId"] = req.EmployeeID
	}
	if req.EmploymentType != "" {
		updates["employmentType"] = req.EmploymentType
	}
	if req.Vehicle != "" {
		vehicleID, err := primitive.ObjectIDFromHex(req.Vehicle)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle id"})
			return
		}
		updates["vehicle"] = vehicleID
	}
	if req.LicenseNumber != "" {
		updates["licenseNumber"] = req.LicenseNumber
	}
	if req.LicenseExpiry != "" {
		licenseExpiry, err := time.Parse(time.RFC3339, req.LicenseExpiry)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid license expiry date"})
			return
		}
		updates["licenseExpiry"] = licenseExpiry
	}
	if req.Avatar != "" {
		updates["avatar"] = req.Avatar
	}

	var driver models.Driver
	err = h.DB.Collection("drivers").FindOneAndUpdate(
		context.Background(),
		bson.M{"_id": id},
		bson.M{"$set": updates},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&driver)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update driver"})
		}
		return
	}

	c.JSON(http.StatusOK, driver)
}

func (h *DriverHandler) DeleteDriver(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid driver id"})
		return
	}

	result, err := h.DB.Collection("drivers").DeleteOne(context.Background(), bson.M{"_id": id})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete driver"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Driver deleted successfully"})
}

// GetLocation returns the driver's last known position.
func (h *DriverHandler) GetLocation(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid driver id"})
		return
	}

	var driver models.Driver
	err = h.DB.Collection("drivers").FindOne(
		context.Background(),
		bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"name": 1, "location": 1}),
	).Decode(&driver)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch location"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"driverId": id,
		"name":     driver.Name,
		"location": driver.Location,
	})
}

// UpdateLocation stores a [longitude, latitude] pair.
func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid driver id"})
		return
	}

	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Coordinates) != 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coordinates. Expected [longitude, latitude]"})
		return
	}

	var driver models.Driver
	err = h.DB.Collection("drivers").FindOneAndUpdate(
		context.Background(),
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"location":  models.NewGeoPoint(req.Coordinates),
			"updatedAt": time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&driver)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update location"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Location updated successfully",
		"location": driver.Location,
	})
}

// UploadDocument stores a driver paperwork file in S3 and appends a
// pointer to the driver's documents list.
func (h *DriverHandler) UploadDocument(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid driver id"})
		return
	}

	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()

	docID := fmt.Sprintf("DOC-%s", uuid.New().String()[:8])
	objectKey := fmt.Sprintf("drivers/%s/%s%s", id.Hex(), docID, filepath.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.S3Uploader.UploadFile(c.Request.Context(), file, objectKey, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload document"})
		return
	}

	now := time.Now()
	document := models.DriverDocument{
		ID:         docID,
		Title:      title,
		URL:        url,
		UploadedAt: &now,
	}

	result, err := h.DB.Collection("drivers").UpdateOne(
		context.Background(),
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"documents": document},
			"$set":  bson.M{"updatedAt": now},
		},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save document"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
		return
	}

	c.JSON(http.StatusCreated, document)
}
