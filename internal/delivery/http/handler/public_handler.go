package handler

import (
	"net/http"

	"cabinet-medical-api/internal/service"
	"cabinet-medical-api/internal/usecase"
	"cabinet-medical-api/pkg/response"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// PublicHandler serves the waiting-room display: a plain JSON snapshot for
// one-shot reads and a WebSocket for the live feed. No authentication; the
// snapshot only ever contains patient names and positions.
type PublicHandler struct {
	log                *logrus.Logger
	waitingLineUsecase usecase.WaitingLineUsecase
	hub                *service.BroadcastHub
	upgrader           websocket.Upgrader
}

func NewPublicHandler(log *logrus.Logger, waitingLineUsecase usecase.WaitingLineUsecase, hub *service.BroadcastHub) *PublicHandler {
	return &PublicHandler{
		log:                log,
		waitingLineUsecase: waitingLineUsecase,
		hub:                hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The display runs on a separate origin from the API.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *PublicHandler) GetWaitingLine(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.waitingLineUsecase.BuildSnapshot(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to build waiting line")
		return
	}

	response.Success(w, http.StatusOK, "Waiting line retrieved successfully", snapshot)
}

func (h *PublicHandler) GetWaitingLineStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.waitingLineUsecase.Stats(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to build waiting line stats")
		return
	}

	response.Success(w, http.StatusOK, "Waiting line stats retrieved successfully", stats)
}

func (h *PublicHandler) WaitingLineSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("Failed to upgrade waiting-line connection: %+v", err)
		return
	}

	h.log.Infof("Waiting-line display connected from %s", r.RemoteAddr)
	h.hub.HandleClient(r.Context(), conn)
	h.log.Infof("Waiting-line display disconnected from %s", r.RemoteAddr)
}
