package capture

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emosense/internal/dao"
	"emosense/internal/vision"
)

func TestClientLoginKeepsToken(t *testing.T) {
	var sawAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/login":
			var req dao.LoginSpec
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "carla", req.Username)
			json.NewEncoder(w).Encode(dao.LoginResponse{Token: "tok-123"})
		case "/api/v1/profile":
			sawAuth = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode(dao.PsychologistSpec{Id: 3, FullName: "Dra. Vega"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.Login(context.Background(), "carla", "secret")
	require.NoError(t, err)

	profile, err := client.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, profile.Id)
	assert.Equal(t, "Bearer tok-123", sawAuth)
}

func TestClientCreateSessionAndAppend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/sessions" && r.Method == http.MethodPost:
			var req dao.CreateSessionSpec
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "happy", req.PredominantEmotion)
			json.NewEncoder(w).Encode(dao.SessionSpec{Id: 12, Uuid: "u-12", PatientId: req.PatientId})
		case r.URL.Path == "/api/v1/session/12/emotions" && r.Method == http.MethodPost:
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok")
	session, err := client.CreateSession(context.Background(), &dao.CreateSessionSpec{
		PatientId:          7,
		PredominantEmotion: "happy",
	})
	require.NoError(t, err)
	assert.Equal(t, 12, session.Id)

	err = client.AddEmotion(context.Background(), session.Id, &dao.AddEmotionSpec{Emotion: "happy", Confidence: 0.8})
	assert.NoError(t, err)
}

func TestClientPredictSendsDataURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/predict", r.URL.Path)
		var req struct {
			Image string `json:"image"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, strings.HasPrefix(req.Image, "data:image/jpeg;base64,"))
		json.NewEncoder(w).Encode(predictResponse{Predictions: []vision.Prediction{
			{Emotion: "neutral", Confidence: 0.7},
		}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok")
	preds, err := client.Predict(context.Background(), []byte{0xff, 0xd8, 0xff})
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, "neutral", preds[0].Emotion)
}

func TestClientSurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"upstream down"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok")
	_, err := client.CreateSession(context.Background(), &dao.CreateSessionSpec{PatientId: 7})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream down")
}
