package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fleetdesk-api-server/internal/api/middleware"
	"fleetdesk-api-server/internal/database"
	"fleetdesk-api-server/internal/models"
	"fleetdesk-api-server/internal/orders"
	"fleetdesk-api-server/internal/socket"
)

type OrderHandler struct {
	DB  *mongo.Database
	Hub *socket.Hub
}

// --- Request bodies ---

type WaypointInput struct {
	Address       string  `json:"address" binding:"required"`
	City          string  `json:"city" binding:"required"`
	State         string  `json:"state" binding:"required"`
	ZipCode       string  `json:"zipCode" binding:"required"`
	ScheduledTime *string `json:"scheduledTime"`
	Notes         string  `json:"notes"`
}

type ContactInput struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
	Phone string `json:"phone" binding:"required"`
}

type CreateOrderRequest struct {
	Customer        ContactInput       `json:"customer" binding:"required"`
	Pickup          WaypointInput      `json:"pickup" binding:"required"`
	Delivery        WaypointInput      `json:"delivery" binding:"required"`
	Items           []models.OrderItem `json:"items"`
	Priority        string             `json:"priority"`
	ReferenceNumber string             `json:"referenceNumber"`
	Notes           string             `json:"notes"`
}

type UpdateOrderRequest struct {
	Customer        *ContactInput  `json:"customer"`
	Pickup          *WaypointInput `json:"pickup"`
	Delivery        *WaypointInput `json:"delivery"`
	Priority        string         `json:"priority"`
	ReferenceNumber string         `json:"referenceNumber"`
	Notes           string         `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type AssignOrderRequest struct {
	DriverID  orders.OptionalRef `json:"driverId"`
	VehicleID orders.OptionalRef `json:"vehicleId"`
}

type UpdateItemsRequest struct {
	Items *[]models.OrderItem `json:"items" binding:"required"`
}

type AddActivityRequest struct {
	Message string `json:"message" binding:"required"`
	Type    string `json:"type"`
	Actor   string `json:"actor"`
}

func waypointFromInput(in WaypointInput) (models.Waypoint, error) {
	wp := models.Waypoint{
		Address: in.Address,
		City:    in.City,
		State:   in.State,
		ZipCode: in.ZipCode,
		Notes:   in.Notes,
	}
	if in.ScheduledTime != nil && *in.ScheduledTime != "" {
		t, err := time.Parse(time.RFC3339, *in.ScheduledTime)
		if err != nil {
			return wp, err
		}
		wp.ScheduledTime = &t
	}
	return wp, nil
}

// --- Handlers ---

func (h *OrderHandler) GetAllOrders(c *gin.Context) {
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
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if driverID := c.Query("driverId"); driverID != "" {
		id, err := primitive.ObjectIDFromHex(driverID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid driverId"})
			return
		}
		filter["assignedDriver"] = id
	}
	if priority := c.Query("priority"); priority != "" {
		filter["priority"] = priority
	}

	collection := h.DB.Collection("orders")

	total, err := collection.CountDocuments(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count orders"})
		return
	}

	cursor, err := collection.Find(context.Background(), filter,
		options.Find().SetSort(bson.M{"createdAt": -1}).SetSkip(skip).SetLimit(int64(limit)))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query orders"})
		return
	}
	defer cursor.Close(context.Background())

	var results []models.Order
	if err := cursor.All(context.Background(), &results); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode orders"})
		return
	}
	if results == nil {
		results = []models.Order{}
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":     results,
		"pagination": paginate(total, page, limit),
	})
}

// CreateOrder opens a new order in pending with a generated order
// number. Manifest totals are computed up front so they are never stale
// relative to the item list.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := orders.ValidateItems(req.Items); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
		return
	}

	pickup, err := waypointFromInput(req.Pickup)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pickup scheduled time"})
		return
	}
	delivery, err := waypointFromInput(req.Delivery)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery scheduled time"})
		return
	}

	createdBy, err := primitive.ObjectIDFromHex(c.GetString(middleware.CtxUserID))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return
	}

	now := time.Now()
	orderNumber, err := database.NextOrderNumber(context.Background(), h.DB, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to allocate order number"})
		return
	}

	items := req.Items
	if items == nil {
		items = []models.OrderItem{}
	}
	totals := orders.ComputeTotals(items)

	newOrder := models.Order{
		OrderNumber:     orderNumber,
		Status:          models.OrderPending,
		ReferenceNumber: req.ReferenceNumber,
		Customer: models.Contact{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		},
		Pickup:      pickup,
		Delivery:    delivery,
		Items:       items,
		TotalWeight: totals.Weight,
		TotalVolume: totals.Volume,
		Priority:    priority,
		Notes:       req.Notes,
		ActivityLog: []models.ActivityEntry{{
			Message:   "Order created",
			Timestamp: now,
			Actor:     middleware.Actor(c),
			Type:      models.ActivityEvent,
		}},
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := h.DB.Collection("orders").InsertOne(context.Background(), newOrder)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Order number collision, retry"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		newOrder.ID = oid
	}

	h.Hub.Broadcast("order.created", gin.H{
		"id":          newOrder.ID,
		"orderNumber": newOrder.OrderNumber,
		"status":      newOrder.Status,
	})

	c.JSON(http.StatusCreated, newOrder)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var order models.Order
	err = h.DB.Collection("orders").FindOne(context.Background(), bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
		}
		return
	}

	c.JSON(http.StatusOK, order)
}

// UpdateOrder edits descriptive fields. Lifecycle fields (status,
// assignment, items) have their own endpoints; the order number is
// immutable.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := bson.M{"updatedAt": time.Now()}
	if req.Customer != nil {
		updates["customer"] = models.Contact{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		}
	}
	if req.Pickup != nil {
		pickup, err := waypointFromInput(*req.Pickup)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pickup scheduled time"})
			return
		}
		updates["pickup"] = pickup
	}
	if req.Delivery != nil {
		delivery, err := waypointFromInput(*req.Delivery)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery scheduled time"})
			return
		}
		updates["delivery"] = delivery
	}
	if req.Priority != "" {
		if !models.ValidPriority(req.Priority) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
			return
		}
		updates["priority"] = req.Priority
	}
	if req.ReferenceNumber != "" {
		updates["referenceNumber"] = req.ReferenceNumber
	}
	if req.Notes != "" {
		updates["notes"] = req.Notes
	}

	if len(updates) == 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields provided"})
		return
	}

	var order models.Order
	err = h.DB.Collection("orders").FindOneAndUpdate(
		context.Background(),
		bson.M{"_id": id},
		bson.M{"$set": updates},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		}
		return
	}

	c.JSON(http.StatusOK, order)
}

// DeleteOrder is a hard delete; there is no tombstone.
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	result, err := h.DB.Collection("orders").DeleteOne(context.Background(), bson.M{"_id": id})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}

// UpdateStatus applies one lifecycle transition. The new status and its
// log entry land in a single document update so readers never see one
// without the other.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	target := models.OrderStatus(req.Status)

	var order models.Order
	err = h.DB.Collection("orders").FindOne(context.Background(), bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
		}
		return
	}

	if err := orders.CheckTransition(order.Status, target); err != nil {
		var unknown *orders.UnknownStatusError
		if errors.As(err, &unknown) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Same status: idempotent no-op.
	if order.Status == target {
		c.JSON(http.StatusOK, order)
		return
	}

	entry := models.ActivityEntry{
		Message:   "Status changed to " + string(target),
		Timestamp: time.Now(),
		Actor:     middleware.Actor(c),
		Type:      models.ActivityStatus,
	}

	var updated models.Order
	err = h.DB.Collection("orders").FindOneAndUpdate(
		context.Background(),
		bson.M{"_id": id},
		bson.M{
			"$set":  bson.M{"status": target, "updatedAt": entry.Timestamp},
			"$push": bson.M{"activityLog": entry},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		}
		return
	}

	h.Hub.Broadcast("order.updated", gin.H{
		"id":          updated.ID,
		"orderNumber": updated.OrderNumber,
		"status":      updated.Status,
	})

	c.JSON(http.StatusOK, updated)
}

// Assign sets or clears the driver and/or vehicle references. An absent
// key leaves the field unchanged; an explicit null clears it. Setting a
// driver on a pending order advances it to assigned; clearing the driver
// of an assigned order reverts it to pending. Every change gets its own
// log entry, all persisted in one update.
func (h *OrderHandler) Assign(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req AssignOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !req.DriverID.Set && !req.VehicleID.Set {
		c.JSON(http.StatusBadRequest, gin.H{"error": "driverId or vehicleId is required"})
		return
	}

	var order models.Order
	err = h.DB.Collection("orders").FindOne(context.Background(), bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
		}
		return
	}

	now := time.Now()
	actor := middleware.Actor(c)
	updates := bson.M{"updatedAt": now}
	var entries []models.ActivityEntry

	if req.DriverID.Set {
		updates["assignedDriver"] = req.DriverID.Value
		message := "Driver assigned"
		if req.DriverID.Value == nil {
			message = "Driver unassigned"
		}
		entries = append(entries, models.ActivityEntry{
			Message:   message,
			Timestamp: now,
			Actor:     actor,
			Type:      models.ActivityStatus,
		})
		if req.DriverID.Value != nil && order.Status == models.OrderPending {
			updates["status"] = models.OrderAssigned
		}
		if req.DriverID.Value == nil && order.Status == models.OrderAssigned {
			updates["status"] = models.OrderPending
		}
	}

	if req.VehicleID.Set {
		updates["assignedVehicle"] = req.VehicleID.Value
		message := "Vehicle assigned"
		if req.VehicleID.Value == nil {
			message = "Vehicle unassigned"
		}
		entries = append(entries, models.ActivityEntry{
			Message:   message,
			Timestamp: now,
			Actor:     actor,
			Type:      models.ActivityStatus,
		})
	}

	var updated models.Order
	err = h.DB.Collection("orders").FindOneAndUpdate(
		context.Background(),
		bson.M{"_id": id},
		bson.M{
			"$set":  updates,
			"$push": bson.M{"activityLog": bson.M{"$each": entries}},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign order"})
		}
		return
	}

	h.Hub.Broadcast("order.updated", gin.H{
		"id":          updated.ID,
		"orderNumber": updated.OrderNumber,
		"status":      updated.Status,
	})

	c.JSON(http.StatusOK, updated)
}

// UpdateItems replaces the manifest wholesale and recomputes the weight
// and volume aggregates. An aggregate nobody contributes to is unset,
// not zeroed: absent means unknown, zero means known to be zero.
func (h *OrderHandler) UpdateItems(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req UpdateItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Items == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Items array is required"})
		return
	}
	items := *req.Items

	if err := orders.ValidateItems(items); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	totals := orders.ComputeTotals(items)

	now := time.Now()
	setOps := bson.M{"items": items, "updatedAt": now}
	unsetOps := bson.M{}
	if totals.Weight != nil {
		setOps["totalWeight"] = *totals.Weight
	} else {
		unsetOps["totalWeight"] = ""
	}
	if totals.Volume != nil {
		setOps["totalVolume"] = *totals.Volume
	} else {
		unsetOps["totalVolume"] = ""
	}

	update := bson.M{
		"$set": setOps,
		"$push": bson.M{"activityLog": models.ActivityEntry{
			Message:   "Manifest updated",
			Timestamp: now,
			Actor:     middleware.Actor(c),
			Type:      models.ActivityEvent,
		}},
	}
	if len(unsetOps) > 0 {
		update["$unset"] = unsetOps
	}

	var updated models.Order
	err = h.DB.Collection("orders").FindOneAndUpdate(
		context.Background(),
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update items"})
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// AddActivity appends one free-form audit entry. Entries are never
// edited or removed.
func (h *OrderHandler) AddActivity(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req AddActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entryType := req.Type
	if !models.ValidActivityType(entryType) {
		entryType = models.ActivityNote
	}
	actor := req.Actor
	if actor == "" {
		actor = middleware.Actor(c)
	}

	entry := models.ActivityEntry{
		Message:   strings.TrimSpace(req.Message),
		Timestamp: time.Now(),
		Actor:     actor,
		Type:      entryType,
	}

	var updated models.Order
	err = h.DB.Collection("orders").FindOneAndUpdate(
		context.Background(),
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"activityLog": entry},
			"$set":  bson.M{"updatedAt": entry.Timestamp},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add activity"})
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}
