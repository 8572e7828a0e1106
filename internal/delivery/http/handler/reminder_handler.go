package handler

import (
	"net/http"

	"cabinet-medical-api/internal/infrastructure/messaging"
	"cabinet-medical-api/internal/service"
	"cabinet-medical-api/pkg/response"
)

type ReminderHandler struct {
	reminderService *service.ReminderService
}

func NewReminderHandler(reminderService *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService}
}

// SendReminders triggers the WhatsApp reminder batch for tomorrow's
// appointments on demand, in addition to the nightly schedule.
func (h *ReminderHandler) SendReminders(w http.ResponseWriter, r *http.Request) {
	sent, err := h.reminderService.SendTomorrowReminders(r.Context())
	if err != nil {
		if err == messaging.ErrNotConfigured {
			response.Error(w, http.StatusServiceUnavailable, "WhatsApp sender is not configured", nil)
			return
		}
		response.InternalServerError(w, "Failed to send reminders")
		return
	}

	response.Success(w, http.StatusOK, "Reminders sent", map[string]int{"sent": sent})
}
