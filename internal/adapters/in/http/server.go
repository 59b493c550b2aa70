// Package http exposes the application use cases over a REST API. Handlers
// translate between wire DTOs and commands or queries; all business rules
// stay in the core. Every route except the health check requires a bearer
// token issued by the TokenService.
package http

import (
	"errors"
	"net/http"
	"time"

	"agrimarket/internal/core/application/usecases/commands"
	"agrimarket/internal/core/application/usecases/queries"
	"agrimarket/internal/core/domain/model/chat"
	"agrimarket/internal/core/domain/model/courier"
	"agrimarket/internal/core/domain/model/inventory"
	"agrimarket/internal/core/domain/model/kernel"
	"agrimarket/internal/core/domain/model/order"
	"agrimarket/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Handlers bundles the use case handlers the server dispatches to.
type Handlers struct {
	CreateOrder           commands.CreateOrderCommandHandler
	RegisterCourier       commands.RegisterCourierCommandHandler
	AssignCourier         commands.AssignCourierCommandHandler
	AdvanceOrderStatus    commands.AdvanceOrderStatusCommandHandler
	CancelOrder           commands.CancelOrderCommandHandler
	UpdateCourierLocation commands.UpdateCourierLocationCommandHandler
	SendMessage           commands.SendMessageCommandHandler
	MarkConversationRead  commands.MarkConversationReadCommandHandler
	SetPresence           commands.SetPresenceCommandHandler

	ListEligibleCouriers queries.ListEligibleCouriersQueryHandler
	GetConversation      queries.GetConversationQueryHandler
	GetTracking          queries.GetTrackingQueryHandler
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
	tokens   *TokenService
}

// NewServer creates a new HTTP server dispatching to the given handlers.
func NewServer(handlers Handlers, tokens *TokenService) *Server {
	return &Server{
		handlers: handlers,
		tokens:   tokens,
	}
}

// RegisterRoutes attaches all routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1", AuthMiddleware(s.tokens))

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:orderId/couriers", s.ListEligibleCouriers)
	api.POST("/orders/:orderId/assign", s.AssignCourier)
	api.POST("/orders/:orderId/status", s.AdvanceOrderStatus)
	api.POST("/orders/:orderId/cancel", s.CancelOrder)

	api.POST("/couriers", s.RegisterCourier)
	api.PUT("/couriers/:courierId/location", s.UpdateCourierLocation)

	api.GET("/deliveries/:orderId/tracking", s.GetTracking)

	api.GET("/conversations/:conversationId", s.GetConversation)
	api.POST("/conversations/:conversationId/messages", s.SendMessage)
	api.POST("/conversations/:conversationId/read", s.MarkConversationRead)

	api.POST("/presence", s.SetPresence)
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type addressDTO struct {
	Line string  `json:"line"`
	City string  `json:"city"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type orderLineDTO struct {
	ItemID     string  `json:"item_id"`
	QuantityKg float64 `json:"quantity_kg"`
}

type createOrderRequest struct {
	Items           []orderLineDTO `json:"items"`
	DeliveryAddress addressDTO     `json:"delivery_address"`
	PaymentMethod   string         `json:"payment_method"`
}

// CreateOrder handles POST /api/v1/orders. The authenticated caller becomes
// the buyer; stock is reserved and the order starts in Pending status.
func (s *Server) CreateOrder(ctx echo.Context) error {
	buyerID, err := callerID(ctx)
	if err != nil {
		return s.respondError(ctx, err)
	}

	var req createOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	lines := make([]commands.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		itemID, err := kernel.UUIDFromString(item.ItemID)
		if err != nil {
			return badRequest(ctx, "Invalid item id: "+item.ItemID)
		}
		lines = append(lines, commands.OrderLine{
			ItemID:     itemID,
			QuantityKg: item.QuantityKg,
		})
	}

	deliveryAddress, err := parseAddress(req.DeliveryAddress)
	if err != nil {
		return badRequest(ctx, "Invalid delivery address: "+err.Error())
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, buyerID, lines, deliveryAddress, req.PaymentMethod)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"order_id": orderID.String()})
}

type registerCourierRequest struct {
	PartnerCode   string   `json:"partner_code"`
	Name          string   `json:"name"`
	Phone         string   `json:"phone"`
	VehicleType   string   `json:"vehicle_type"`
	VehicleNumber string   `json:"vehicle_number"`
	CapacityKg    float64  `json:"capacity_kg"`
	ServiceCities []string `json:"service_cities"`
	MaxDistanceKm float64  `json:"max_distance_km"`
}

// RegisterCourier handles POST /api/v1/couriers.
func (s *Server) RegisterCourier(ctx echo.Context) error {
	var req registerCourierRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	vehicleType, err := courier.VehicleTypeFromString(req.VehicleType)
	if err != nil {
		return badRequest(ctx, "Invalid vehicle type: "+req.VehicleType)
	}

	courierID := kernel.NewUUID()
	cmd, err := commands.NewRegisterCourierCommand(
		courierID,
		req.PartnerCode,
		req.Name,
		req.Phone,
		vehicleType,
		req.VehicleNumber,
		req.CapacityKg,
		req.ServiceCities,
		req.MaxDistanceKm,
	)
	if err != nil {
		return badRequest(ctx, "Invalid courier data: "+err.Error())
	}

	if err := s.handlers.RegisterCourier.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"courier_id": courierID.String()})
}

type courierCandidateDTO struct {
	ID                 string  `json:"id"`
	PartnerCode        string  `json:"partner_code"`
	Name               string  `json:"name"`
	VehicleType        string  `json:"vehicle_type"`
	CapacityKg         float64 `json:"capacity_kg"`
	PickupDistanceKm   float64 `json:"pickup_distance_km"`
	DeliveryDistanceKm float64 `json:"delivery_distance_km"`
	AverageRating      float64 `json:"average_rating"`
	WithinRange        bool    `json:"within_range"`
	FitsCapacity       bool    `json:"fits_capacity"`
	Eligible           bool    `json:"eligible"`
}

// ListEligibleCouriers handles GET /api/v1/orders/:orderId/couriers. Returns
// the ranked candidate list for the order, eligible couriers first.
func (s *Server) ListEligibleCouriers(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewListEligibleCouriersQuery(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	candidates, err := s.handlers.ListEligibleCouriers.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.respondError(ctx, err)
	}

	response := make([]courierCandidateDTO, len(candidates))
	for i, candidate := range candidates {
		response[i] = courierCandidateDTO{
			ID:                 candidate.ID.String(),
			PartnerCode:        candidate.PartnerCode,
			Name:               candidate.Name,
			VehicleType:        candidate.VehicleType,
			CapacityKg:         candidate.CapacityKg,
			PickupDistanceKm:   candidate.PickupDistanceKm,
			DeliveryDistanceKm: candidate.DeliveryDistanceKm,
			AverageRating:      candidate.AverageRating,
			WithinRange:        candidate.WithinRange,
			FitsCapacity:       candidate.FitsCapacity,
			Eligible:           candidate.Eligible,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

type assignCourierRequest struct {
	CourierID string `json:"courier_id"`
}

// AssignCourier handles POST /api/v1/orders/:orderId/assign.
func (s *Server) AssignCourier(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req assignCourierRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}

	cmd, err := commands.NewAssignCourierCommand(orderID, courierID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err := s.handlers.AssignCourier.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type advanceOrderStatusRequest struct {
	Status string `json:"status"`
}

// AdvanceOrderStatus handles POST /api/v1/orders/:orderId/status.
func (s *Server) AdvanceOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req advanceOrderStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	target, err := order.StatusFromString(req.Status)
	if err != nil {
		return badRequest(ctx, "Invalid status: "+req.Status)
	}

	cmd, err := commands.NewAdvanceOrderStatusCommand(orderID, target)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err := s.handlers.AdvanceOrderStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/:orderId/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	cmd, err := commands.NewCancelOrderCommand(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err := s.handlers.CancelOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type updateCourierLocationRequest struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	OrderID *string `json:"order_id,omitempty"`
}

// UpdateCourierLocation handles PUT /api/v1/couriers/:courierId/location.
// When order_id is present the position is mirrored onto that order's
// delivery record for live tracking.
func (s *Server) UpdateCourierLocation(ctx echo.Context) error {
	courierID, err := kernel.UUIDFromString(ctx.Param("courierId"))
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}

	var req updateCourierLocationRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	point, err := kernel.NewGeoPoint(req.Lat, req.Lng)
	if err != nil {
		return badRequest(ctx, "Invalid coordinates: "+err.Error())
	}

	var orderID *kernel.UUID
	if req.OrderID != nil {
		parsed, err := kernel.UUIDFromString(*req.OrderID)
		if err != nil {
			return badRequest(ctx, "Invalid order id")
		}
		orderID = &parsed
	}

	cmd, err := commands.NewUpdateCourierLocationCommand(courierID, point, orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err := s.handlers.UpdateCourierLocation.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type trackedPositionDTO struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	UpdatedAt time.Time `json:"updated_at"`
}

type timelineStepDTO struct {
	Status string    `json:"status"`
	At     time.Time `json:"at"`
}

type trackingResponse struct {
	OrderID               string              `json:"order_id"`
	OrderStatus           string              `json:"order_status"`
	DeliveryStatus        string              `json:"delivery_status"`
	PartnerID             *string             `json:"partner_id,omitempty"`
	PartnerName           string              `json:"partner_name,omitempty"`
	PartnerPhone          string              `json:"partner_phone,omitempty"`
	VehicleNumber         string              `json:"vehicle_number,omitempty"`
	CurrentPosition       *trackedPositionDTO `json:"current_position,omitempty"`
	AssignedAt            *time.Time          `json:"assigned_at,omitempty"`
	EstimatedDeliveryTime *time.Time          `json:"estimated_delivery_time,omitempty"`
	DestinationLine       string              `json:"destination_line"`
	DestinationCity       string              `json:"destination_city"`
	Timeline              []timelineStepDTO   `json:"timeline"`
}

// GetTracking handles GET /api/v1/deliveries/:orderId/tracking.
func (s *Server) GetTracking(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetTrackingQuery(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	tracking, err := s.handlers.GetTracking.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.respondError(ctx, err)
	}

	response := trackingResponse{
		OrderID:               tracking.OrderID.String(),
		OrderStatus:           tracking.OrderStatus,
		DeliveryStatus:        tracking.DeliveryStatus,
		PartnerName:           tracking.PartnerName,
		PartnerPhone:          tracking.PartnerPhone,
		VehicleNumber:         tracking.VehicleNumber,
		AssignedAt:            tracking.AssignedAt,
		EstimatedDeliveryTime: tracking.EstimatedDeliveryTime,
		DestinationLine:       tracking.DestinationLine,
		DestinationCity:       tracking.DestinationCity,
		Timeline:              make([]timelineStepDTO, len(tracking.Timeline)),
	}
	if tracking.PartnerID != nil {
		partnerID := tracking.PartnerID.String()
		response.PartnerID = &partnerID
	}
	if tracking.CurrentPosition != nil {
		response.CurrentPosition = &trackedPositionDTO{
			Lat:       tracking.CurrentPosition.Lat,
			Lng:       tracking.CurrentPosition.Lng,
			UpdatedAt: tracking.CurrentPosition.UpdatedAt,
		}
	}
	for i, step := range tracking.Timeline {
		response.Timeline[i] = timelineStepDTO{Status: step.Status, At: step.At}
	}

	return ctx.JSON(http.StatusOK, response)
}

type messageDTO struct {
	Seq        int64      `json:"seq"`
	SenderID   string     `json:"sender_id"`
	SenderRole string     `json:"sender_role"`
	Content    string     `json:"content"`
	SentAt     time.Time  `json:"sent_at"`
	Delivered  bool       `json:"delivered"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
}

type conversationResponse struct {
	ID             string       `json:"id"`
	Kind           string       `json:"kind"`
	SubjectID      string       `json:"subject_id"`
	CustomerID     string       `json:"customer_id"`
	SellerID       string       `json:"seller_id"`
	Messages       []messageDTO `json:"messages"`
	UnreadCount    int          `json:"unread_count"`
	LastActivityAt time.Time    `json:"last_activity_at"`
}

// GetConversation handles GET /api/v1/conversations/:conversationId. The
// unread count in the response is the one for the calling participant.
func (s *Server) GetConversation(ctx echo.Context) error {
	conversationID, err := kernel.UUIDFromString(ctx.Param("conversationId"))
	if err != nil {
		return badRequest(ctx, "Invalid conversation id")
	}

	requesterID, err := callerID(ctx)
	if err != nil {
		return s.respondError(ctx, err)
	}

	query, err := queries.NewGetConversationQuery(conversationID, requesterID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	conversation, err := s.handlers.GetConversation.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.respondError(ctx, err)
	}

	response := conversationResponse{
		ID:             conversation.ID.String(),
		Kind:           conversation.Kind,
		SubjectID:      conversation.SubjectID.String(),
		CustomerID:     conversation.CustomerID.String(),
		SellerID:       conversation.SellerID.String(),
		Messages:       make([]messageDTO, len(conversation.Messages)),
		UnreadCount:    conversation.UnreadCount,
		LastActivityAt: conversation.LastActivityAt,
	}
	for i, message := range conversation.Messages {
		response.Messages[i] = messageDTO{
			Seq:        message.Seq,
			SenderID:   message.SenderID.String(),
			SenderRole: message.SenderRole,
			Content:    message.Content,
			SentAt:     message.SentAt,
			Delivered:  message.Delivered,
			ReadAt:     message.ReadAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

// SendMessage handles POST /api/v1/conversations/:conversationId/messages.
// The response reports whether the recipient received a live push.
func (s *Server) SendMessage(ctx echo.Context) error {
	conversationID, err := kernel.UUIDFromString(ctx.Param("conversationId"))
	if err != nil {
		return badRequest(ctx, "Invalid conversation id")
	}

	senderID, err := callerID(ctx)
	if err != nil {
		return s.respondError(ctx, err)
	}

	var req sendMessageRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewSendMessageCommand(conversationID, senderID, req.Content)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	delivered, err := s.handlers.SendMessage.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]bool{"delivered": delivered})
}

// MarkConversationRead handles POST /api/v1/conversations/:conversationId/read.
func (s *Server) MarkConversationRead(ctx echo.Context) error {
	conversationID, err := kernel.UUIDFromString(ctx.Param("conversationId"))
	if err != nil {
		return badRequest(ctx, "Invalid conversation id")
	}

	readerID, err := callerID(ctx)
	if err != nil {
		return s.respondError(ctx, err)
	}

	cmd, err := commands.NewMarkConversationReadCommand(conversationID, readerID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err := s.handlers.MarkConversationRead.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type setPresenceRequest struct {
	Online bool   `json:"online"`
	Name   string `json:"name"`
}

// SetPresence handles POST /api/v1/presence for the authenticated user. The
// role comes from the token, never from the body.
func (s *Server) SetPresence(ctx echo.Context) error {
	userID, err := callerID(ctx)
	if err != nil {
		return s.respondError(ctx, err)
	}

	var req setPresenceRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewSetPresenceCommand(userID, req.Online, callerRole(ctx), req.Name)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err := s.handlers.SetPresence.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func parseAddress(dto addressDTO) (kernel.Address, error) {
	point, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return kernel.Address{}, err
	}
	return kernel.NewAddress(dto.Line, dto.City, point)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, errorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// respondError maps core errors onto HTTP status codes.
func (s *Server) respondError(ctx echo.Context, err error) error {
	var status int
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, chat.ErrNotParticipant):
		status = http.StatusForbidden
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrExpiredToken):
		status = http.StatusUnauthorized
	case errors.Is(err, courier.ErrCourierUnavailable),
		errors.Is(err, order.ErrIllegalTransition),
		errors.Is(err, order.ErrCourierAlreadyAssigned),
		errors.Is(err, inventory.ErrInsufficientStock):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired):
		status = http.StatusBadRequest
	default:
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
		})
	}

	return ctx.JSON(status, errorResponse{Code: status, Message: err.Error()})
}
