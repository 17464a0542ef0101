package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fleetdesk-api-server/internal/models"
)

type SummaryHandler struct {
	DB *mongo.Database
}

type trendPoint struct {
	Label string `json:"label"`
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// GetSummary builds the dashboard snapshot: order counts by lifecycle
// bucket, a seven day creation trend, fleet availability, the most
// recent orders and any operational alerts.
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	ctx := context.Background()
	ordersCol := h.DB.Collection("orders")
	driversCol := h.DB.Collection("drivers")
	vehiclesCol := h.DB.Collection("vehicles")

	orderCounts, err := h.countOrders(ctx, ordersCol)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count orders"})
		return
	}

	trend, err := h.weeklyTrend(ctx, ordersCol)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute order trend"})
		return
	}

	driverCounts, err := countByField(ctx, driversCol, "status")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count drivers"})
		return
	}

	vehicleCounts, err := countByField(ctx, vehiclesCol, "status")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count vehicles"})
		return
	}

	recent, err := h.recentOrders(ctx, ordersCol)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load recent orders"})
		return
	}

	alerts := buildAlerts(orderCounts, driverCounts, vehicleCounts)

	c.JSON(http.StatusOK, gin.H{
		"orders": gin.H{
			"total":        orderCounts["total"],
			"pending":      orderCounts["pending"],
			"inTransit":    orderCounts["inTransit"],
			"delivered":    orderCounts["delivered"],
			"cancelled":    orderCounts["cancelled"],
			"unassigned":   orderCounts["unassigned"],
			"highPriority": orderCounts["highPriority"],
			"weeklyTrend":  trend,
		},
		"drivers": gin.H{
			"total":    sumCounts(driverCounts),
			"active":   driverCounts[models.DriverActive],
			"onBreak":  driverCounts[models.DriverOnBreak],
			"offDuty":  driverCounts[models.DriverOffDuty],
			"inactive": driverCounts[models.DriverInactive],
		},
		"vehicles": gin.H{
			"total":       sumCounts(vehicleCounts),
			"available":   vehicleCounts[models.VehicleAvailable],
			"inUse":       vehicleCounts[models.VehicleInUse],
			"maintenance": vehicleCounts[models.VehicleMaintenance],
			"retired":     vehicleCounts[models.VehicleRetired],
		},
		"recentOrders": recent,
		"alerts":       alerts,
	})
}

func (h *SummaryHandler) countOrders(ctx context.Context, col *mongo.Collection) (map[string]int64, error) {
	counts := map[string]int64{}

	filters := map[string]bson.M{
		"total":      {},
		"pending":    {"status": models.OrderPending},
		"delivered":  {"status": models.OrderDelivered},
		"cancelled":  {"status": models.OrderCancelled},
		"unassigned": {"status": models.OrderPending, "assignedDriver": nil},
		"inTransit": {"status": bson.M{"$in": []models.OrderStatus{
			models.OrderAssigned, models.OrderPickedUp, models.OrderInTransit,
		}}},
		"highPriority": {
			"priority": bson.M{"$in": []string{models.PriorityHigh, models.PriorityUrgent}},
			"status":   bson.M{"$nin": []models.OrderStatus{models.OrderDelivered, models.OrderCancelled}},
		},
	}

	for name, filter := range filters {
		n, err := col.CountDocuments(ctx, filter)
		if err != nil {
			return nil, err
		}
		counts[name] = n
	}
	return counts, nil
}

// weeklyTrend returns one point per day for the last seven days, today
// included, zero-filled for days with no orders.
func (h *SummaryHandler) weeklyTrend(ctx context.Context, col *mongo.Collection) ([]trendPoint, error) {
	now := time.Now()
	start := now.AddDate(0, 0, -6)
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": start}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$createdAt"}},
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Date  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	byDate := make(map[string]int64, len(rows))
	for _, row := range rows {
		byDate[row.Date] = row.Count
	}

	trend := make([]trendPoint, 0, 7)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		key := day.Format("2006-01-02")
		trend = append(trend, trendPoint{
			Label: day.Format("Mon"),
			Date:  key,
			Count: byDate[key],
		})
	}
	return trend, nil
}

func (h *SummaryHandler) recentOrders(ctx context.Context, col *mongo.Collection) ([]models.Order, error) {
	cursor, err := col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(5))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []models.Order
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if results == nil {
		results = []models.Order{}
	}
	return results, nil
}

// countByField groups a collection by a single string field.
func countByField(ctx context.Context, col *mongo.Collection, field string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$" + field,
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Value string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Value] = row.Count
	}
	return counts, nil
}

func sumCounts(counts map[string]int64) int64 {
	var total int64
	for _, n := range counts {
		total += n
	}
	return total
}

func buildAlerts(orderCounts, driverCounts, vehicleCounts map[string]int64) []string {
	alerts := []string{}
	if n := orderCounts["unassigned"]; n > 0 {
		alerts = append(alerts, fmt.Sprintf("%d pending orders have no driver assigned", n))
	}
	if n := orderCounts["highPriority"]; n > 0 {
		alerts = append(alerts, fmt.Sprintf("%d high priority orders are still open", n))
	}
	if n := vehicleCounts[models.VehicleMaintenance]; n > 0 {
		alerts = append(alerts, fmt.Sprintf("%d vehicles are in maintenance", n))
	}
	if driverCounts[models.DriverActive] == 0 {
		alerts = append(alerts, "No drivers are currently active")
	}
	return alerts
}
