package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"jour-j-backend/models"
	"jour-j-backend/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestGetStats_Proprietaire(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("non-propriétaire refusé", func(mt *mtest.T) {
		eventID := primitive.NewObjectID()
		event := models.Event{ID: eventID, HostID: primitive.NewObjectID()}

		mt.AddMockResponses(findResponse(mt, "events", toDoc(mt, event)))

		handler := NewStatsHandler(mt.DB, services.NewStatsService(mt.DB))

		req := httptest.NewRequest(http.MethodGet, "/api/evenements/"+eventID.Hex()+"/stats", nil)
		req = mux.SetURLVars(req, map[string]string{"event_id": eventID.Hex()})
		req = withClaims(req, primitive.NewObjectID(), "host")
		w := httptest.NewRecorder()

		handler.GetStats(w, req)

		if w.Code != http.StatusForbidden {
			mt.Errorf("code = %d, attendu 403, corps: %s", w.Code, w.Body.String())
		}
	})

	mt.Run("sans authentification refusé", func(mt *mtest.T) {
		eventID := primitive.NewObjectID()
		event := models.Event{ID: eventID, HostID: primitive.NewObjectID()}

		mt.AddMockResponses(findResponse(mt, "events", toDoc(mt, event)))

		handler := NewStatsHandler(mt.DB, services.NewStatsService(mt.DB))

		req := httptest.NewRequest(http.MethodGet, "/api/evenements/"+eventID.Hex()+"/stats", nil)
		req = mux.SetURLVars(req, map[string]string{"event_id": eventID.Hex()})
		w := httptest.NewRecorder()

		handler.GetStats(w, req)

		if w.Code != http.StatusUnauthorized {
			mt.Errorf("code = %d, attendu 401, corps: %s", w.Code, w.Body.String())
		}
	})
}
