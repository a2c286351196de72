package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-content-backend/services"
)

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	relay     *services.ContactRelay
}

func newContactHandler(relay *services.ContactRelay) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		relay:     relay,
	}
}

// sendEmail relays a contact form submission to the site owner
// @Router /send-email [post]
func (h contactHandler) sendEmail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var msg services.ContactMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to decode contact request body")
			h.responder.WriteError(w, bodyError("JSON", err))
			return
		}

		if err := h.relay.Relay(r.Context(), msg); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, StatusResponse{
			Status:  "success",
			Message: "Email sent successfully",
		})
	}
}
