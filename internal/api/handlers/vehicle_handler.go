package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fleetdesk-api-server/internal/models"
)

type VehicleHandler struct {
	DB *mongo.Database
}

type CreateVehiclePayload struct {
	Name        string  `json:"name" binding:"required"`
	PlateNumber string  `json:"plateNumber" binding:"required"`
	Type        string  `json:"type" binding:"required"`
	Status      string  `json:"status"`
	Capacity    float64 `json:"capacity" binding:"required"`
	FuelType    string  `json:"fuelType"`
	Mileage     float64 `json:"mileage"`
	VIN         string  `json:"vin"`
	Make        string  `json:"make"`
	Model       string  `json:"model"`
	Year        int     `json:"year"`
	Color       string  `json:"color"`
}

type UpdateVehiclePayload struct {
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	Status         string   `json:"status"`
	Capacity       *float64 `json:"capacity"`
	CapacityUsed   *float64 `json:"capacityUsed"`
	FuelType       string   `json:"fuelType"`
	Mileage        *float64 `json:"mileage"`
	Odometer       *float64 `json:"odometer"`
	FuelLevel      *float64 `json:"fuelLevel"`
	HealthStatus   string   `json:"healthStatus"`
	AssignedDriver string   `json:"assignedDriver"`
}

type MaintenancePayload struct {
	Title          string `json:"title" binding:"required"`
	PerformedAt    string `json:"performedAt"`
	Status         string `json:"status"`
	Notes          string `json:"notes"`
	NextServiceDue string `json:"nextServiceDue"`
}

func (h *VehicleHandler) GetAllVehicles(c *gin.Context) {
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

	collection := h.DB.Collection("vehicles")

	total, err := collection.CountDocuments(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count vehicles"})
		return
	}

	cursor, err := collection.Find(context.Background(), filter,
		options.Find().SetSort(bson.M{"createdAt": -1}).SetSkip(skip).SetLimit(int64(limit)))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query vehicles"})
		return
	}
	defer cursor.Close(context.Background())

	var vehicles []models.Vehicle
	if err := cursor.All(context.Background(), &vehicles); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode vehicles"})
		return
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}

	c.JSON(http.StatusOK, gin.H{
		"vehicles":   vehicles,
		"pagination": paginate(total, page, limit),
	})
}

func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var payload CreateVehiclePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := payload.Status
	if status == "" {
		status = models.VehicleAvailable
	}
	if !models.ValidVehicleStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle status"})
		return
	}

	now := time.Now()
	newVehicle := models.Vehicle{
		Name:        payload.Name,
		PlateNumber: strings.ToUpper(payload.PlateNumber),
		Type:        payload.Type,
		Status:      status,
		Capacity:    payload.Capacity,
		FuelType:    payload.FuelType,
		Mileage:     payload.Mileage,
		VIN:         payload.VIN,
		Make:        payload.Make,
		Model:       payload.Model,
		Year:        payload.Year,
		Color:       payload.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := h.DB.Collection("vehicles").InsertOne(context.Background(), newVehicle)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Vehicle with this plate number already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vehicle"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newVehicle.ID = oid
	}

	c.JSON(http.StatusCreated, newVehicle)
}

func (h *VehicleHandler) GetVehicleByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle id"})
		return
	}

	var vehicle models.Vehicle
	err = h.DB.Collection("vehicles").FindOne(context.Background(), bson.M{"_id": id}).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve vehicle"})
		}
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle id"})
		return
	}

	var payload UpdateVehiclePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := bson.M{"updatedAt": time.Now()}
	if payload.Name != "" {
		updates["name"] = payload.Name
	}
	if payload.Type != "" {
		updates["type"] = payload.Type
	}
	if payload.Status != "" {
		if !models.ValidVehicleStatus(payload.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle status"})
			return
		}
		updates["status"] = payload.Status
	}
	if payload.Capacity != nil {
		updates["capacity"] = *payload.Capacity
	}
	if payload.CapacityUsed != nil {
		updates["capacityUsed"] = *payload.CapacityUsed
	}
	if payload.FuelType != "" {
		updates["fuelType"] = payload.FuelType
	}
	if payload.Mileage != nil {
		updates["mileage"] = *payload.Mileage
	}
	if payload.Odometer != nil {
		updates["odometer"] = *payload.Odometer
	}
	if payload.FuelLevel != nil {
		updates["fuelLevel"] = *payload.FuelLevel
	}
	if payload.HealthStatus != "" {
		updates["healthStatus"] = payload.HealthStatus
	}
	if payload.AssignedDriver != "" {
		driverID, err := primitive.ObjectIDFromHex(payload.AssignedDriver)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid driver id"})
			return
		}
		updates["assignedDriver"] = driverID
	}

	var vehicle models.Vehicle
	err = h.DB.Collection("vehicles").FindOneAndUpdate(
		context.Background(),
		bson.M{"_id": id},
		bson.M{"$set": updates},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vehicle"})
		}
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle id"})
		return
	}

	result, err := h.DB.Collection("vehicles").DeleteOne(context.Background(), bson.M{"_id": id})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vehicle"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted successfully"})
}

// AddMaintenance appends a service-history entry. History is append-only;
// entries are never edited. An optional nextServiceDue rides along in the
// same atomic update.
func (h *VehicleHandler) AddMaintenance(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle id"})
		return
	}

	var payload MaintenancePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if payload.Status != "" && payload.Status != "completed" && payload.Status != "scheduled" && payload.Status != "overdue" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	entry := models.MaintenanceEntry{
		Title:  strings.TrimSpace(payload.Title),
		Status: payload.Status,
		Notes:  payload.Notes,
	}

	if payload.PerformedAt != "" {
		performedAt, err := time.Parse(time.RFC3339, payload.PerformedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid performedAt date"})
			return
		}
		entry.PerformedAt = &performedAt
	}

	updates := bson.M{"updatedAt": time.Now()}
	if payload.NextServiceDue != "" {
		nextServiceDue, err := time.Parse(time.RFC3339, payload.NextServiceDue)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid nextServiceDue date"})
			return
		}
		updates["nextServiceDue"] = nextServiceDue
	}

	var vehicle models.Vehicle
	err = h.DB.Collection("vehicles").FindOneAndUpdate(
		context.Background(),
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"maintenanceHistory": entry},
			"$set":  updates,
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update maintenance"})
		}
		return
	}

	c.JSON(http.StatusOK, vehicle)
}
