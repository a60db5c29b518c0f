package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mesafacil/reservation-api/internal/authz"
	"github.com/mesafacil/reservation-api/internal/httperr"
	"github.com/mesafacil/reservation-api/internal/httpresp"
	"github.com/mesafacil/reservation-api/internal/middleware"
	ucReservation "github.com/mesafacil/reservation-api/internal/usecase/reservation"
)

// ======================================================
// HANDLER
// ======================================================

type ReservationHandler struct {
	createUC   *ucReservation.CreateReservation
	listUC     *ucReservation.ListReservations
	getUC      *ucReservation.GetReservation
	updateUC   *ucReservation.UpdateReservation
	deleteUC   *ucReservation.DeleteReservation
	cancelUC   *ucReservation.CancelReservation
	completeUC *ucReservation.CompleteReservation
}

func NewReservationHandler(
	createUC *ucReservation.CreateReservation,
	listUC *ucReservation.ListReservations,
	getUC *ucReservation.GetReservation,
	updateUC *ucReservation.UpdateReservation,
	deleteUC *ucReservation.DeleteReservation,
	cancelUC *ucReservation.CancelReservation,
	completeUC *ucReservation.CompleteReservation,
) *ReservationHandler {
	return &ReservationHandler{
		createUC:   createUC,
		listUC:     listUC,
		getUC:      getUC,
		updateUC:   updateUC,
		deleteUC:   deleteUC,
		cancelUC:   cancelUC,
		completeUC: completeUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateReservationRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	TableIDs  []uint `json:"table_ids" binding:"required"`
}

type UpdateReservationRequest struct {
	Date      *string `json:"date,omitempty"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
	Status    *string `json:"status,omitempty"`
}

// ======================================================
// HANDLERS
// ======================================================

func (h *ReservationHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	res, err := h.createUC.Execute(c.Request.Context(), ucReservation.CreateReservationInput{
		UserID:    userID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		TableIDs:  req.TableIDs,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	httpresp.Created(c, res)
}

func (h *ReservationHandler) List(c *gin.Context) {
	page, limit := paginationParams(c)

	list, total, err := h.listUC.Execute(c.Request.Context(), page, limit)
	if err != nil {
		httperr.Internal(c, "failed_to_list_reservations", "Erro ao obter as reservas.")
		return
	}

	httpresp.Page(c, page, limit, total, list)
}

func (h *ReservationHandler) Get(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	res, err := h.getUC.Execute(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if !h.allowAccess(c, res.UserID) {
		return
	}

	httpresp.OK(c, res)
}

func (h *ReservationHandler) Update(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	current, err := h.getUC.Execute(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if !h.allowAccess(c, current.UserID) {
		return
	}

	var req UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uint)

	res, err := h.updateUC.Execute(c.Request.Context(), userID, id, ucReservation.UpdateReservationInput{
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    req.Status,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *ReservationHandler) Delete(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	current, err := h.getUC.Execute(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if !h.allowAccess(c, current.UserID) {
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uint)

	if err := h.deleteUC.Execute(c.Request.Context(), userID, id); err != nil {
		h.writeError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"id": id})
}

func (h *ReservationHandler) Cancel(c *gin.Context) {
	h.transition(c, func(actorID, id uint) (any, error) {
		return h.cancelUC.Execute(c.Request.Context(), actorID, id)
	})
}

func (h *ReservationHandler) Complete(c *gin.Context) {
	h.transition(c, func(actorID, id uint) (any, error) {
		return h.completeUC.Execute(c.Request.Context(), actorID, id)
	})
}

// ======================================================
// HELPERS
// ======================================================

func (h *ReservationHandler) transition(c *gin.Context, fn func(uint, uint) (any, error)) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	current, err := h.getUC.Execute(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if !h.allowAccess(c, current.UserID) {
		return
	}

	actorID := c.MustGet(middleware.ContextUserID).(uint)

	res, err := fn(actorID, id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	httpresp.OK(c, res)
}

// allowAccess libera o dono da reserva ou a equipe do restaurante.
func (h *ReservationHandler) allowAccess(c *gin.Context, ownerID uint) bool {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.GetString(middleware.ContextUserRole)

	if authz.AllowOwnershipOrRole(role, userID, ownerID,
		authz.RoleAdmin, authz.RoleManager, authz.RoleEmployee) {
		return true
	}

	httperr.Forbidden(c, "access_denied",
		"É preciso ser o dono da reserva ou ter papel suficiente.")
	return false
}

func (h *ReservationHandler) writeError(c *gin.Context, err error) {
	if ce, ok := httperr.AsConflict(err); ok {
		httperr.WriteDetails(c, 409, "table_time_conflict",
			"A mesa já está reservada nesse horário.",
			gin.H{"table_id": ce.TableID})
		return
	}

	switch {
	case httperr.IsBusiness(err, "tables_required"):
		httperr.BadRequest(c, "tables_required", "Informe ao menos uma mesa.")
	case httperr.IsBusiness(err, "invalid_date_or_time"):
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
	case httperr.IsBusiness(err, "invalid_time_window"):
		httperr.BadRequest(c, "invalid_time_window", "O início deve ser antes do fim.")
	case httperr.IsBusiness(err, "invalid_status"):
		httperr.BadRequest(c, "invalid_status", "Status desconhecido.")
	case httperr.IsBusiness(err, "invalid_state"):
		httperr.BadRequest(c, "invalid_state", "Transição de status não permitida.")
	case httperr.IsBusiness(err, "table_not_found"):
		httperr.NotFound(c, "table_not_found", "Mesa não encontrada.")
	case httperr.IsBusiness(err, "reservation_not_found"):
		httperr.NotFound(c, "reservation_not_found", "Reserva não encontrada.")
	default:
		httperr.Internal(c, "storage_error", "Erro interno ao processar a reserva.")
	}
}

func reservationID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return 0, false
	}
	return uint(id), true
}
