package api

import (
	"errors"
	"net/http"
	"strings"

	"guesthouse/internal/database"
	"guesthouse/internal/models"
	"guesthouse/internal/service"
)

func (s *HTTPServer) handleRooms(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rooms, err := s.rooms.GetAllRooms(r.Context())
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
	case http.MethodPost:
		var room models.Room
		if err := decodeJSON(r, &room); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.rooms.CreateRoom(r.Context(), &room); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, room)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleRoomByID(w http.ResponseWriter, r *http.Request) {
	id, sub, err := idFromPath(r.URL.Path, "/api/v1/rooms/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if sub == "status" {
		s.handleRoomStatus(w, r, id)
		return
	}
	if sub != "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		room, err := s.rooms.GetRoom(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, room)
	case http.MethodPut:
		var room models.Room
		if err := decodeJSON(r, &room); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		room.ID = id
		if err := s.rooms.UpdateRoom(r.Context(), &room); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, room)
	case http.MethodDelete:
		if err := s.rooms.DeleteRoom(r.Context(), id); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleRoomStatus(w http.ResponseWriter, r *http.Request, id int64) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.rooms.UpdateRoomStatus(r.Context(), id, body.Status); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": body.Status})
}

func (s *HTTPServer) handleGuests(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var (
			guests []*models.Guest
			err    error
		)
		if strings.EqualFold(r.URL.Query().Get("active"), "true") {
			guests, err = s.guests.GetActiveGuests(r.Context())
		} else {
			guests, err = s.guests.GetAllGuests(r.Context())
		}
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"guests": guests})
	case http.MethodPost:
		var guest models.Guest
		if err := decodeJSON(r, &guest); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.guests.CreateGuest(r.Context(), &guest); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, guest)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleGuestByID(w http.ResponseWriter, r *http.Request) {
	id, sub, err := idFromPath(r.URL.Path, "/api/v1/guests/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if sub == "checkout" {
		s.handleGuestCheckout(w, r, id)
		return
	}
	if sub != "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		guest, err := s.guests.GetGuest(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, guest)
	case http.MethodPut:
		var guest models.Guest
		if err := decodeJSON(r, &guest); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		guest.ID = id
		if err := s.guests.UpdateGuest(r.Context(), &guest); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, guest)
	case http.MethodDelete:
		if err := s.guests.DeleteGuest(r.Context(), id); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleGuestCheckout(w http.ResponseWriter, r *http.Request, id int64) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Version int64 `json:"version"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.guests.CheckoutGuest(r.Context(), id, body.Version); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"checked_out": true})
}

func (s *HTTPServer) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		expenses, err := s.expenses.GetAllExpenses(r.Context())
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"expenses": expenses})
	case http.MethodPost:
		var expense models.Expense
		if err := decodeJSON(r, &expense); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.expenses.CreateExpense(r.Context(), &expense); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, expense)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	id, sub, err := idFromPath(r.URL.Path, "/api/v1/expenses/")
	if err != nil || sub != "" {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := s.expenses.DeleteExpense(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *HTTPServer) handleAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	summary, err := s.analytics.GetSummary(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *HTTPServer) handleReconcile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	report := s.reconciler.RunOnce(r.Context())
	writeJSON(w, http.StatusOK, report)
}

func (s *HTTPServer) handleAdmin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Action   string `json:"action"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.admin.ExecuteAction(r.Context(), body.Action, body.Password)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) handleAdminPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Current string `json:"current"`
		New     string `json:"new"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.admin.ChangePassword(r.Context(), body.Current, body.New); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"changed": true})
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	path, err := s.exporter.Export(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"file_path": path})
}

func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, database.ErrConcurrentModification):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, database.ErrDuplicateRoom),
		errors.Is(err, database.ErrAlreadyCheckedOut),
		errors.Is(err, service.ErrRoomNotAvailable):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrWrongPassword):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrPhoneRequired),
		errors.Is(err, service.ErrRoomNumberRequired),
		errors.Is(err, service.ErrDescriptionRequired),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrCheckOutBeforeCheckIn),
		errors.Is(err, service.ErrInvalidCheckOutTime),
		errors.Is(err, service.ErrInvalidRoomStatus),
		errors.Is(err, service.ErrInvalidAdminAction):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error().Err(err).Msg("internal error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
