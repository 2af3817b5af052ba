package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/vehicle-tracker/internal/ingest"
	"github.com/ukydev/vehicle-tracker/internal/middleware"
	"github.com/ukydev/vehicle-tracker/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

func withClaims(r *http.Request, claims *models.Claims) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.UserContextKey, claims))
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/tracking/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return withClaims(req, &models.Claims{Username: "ANDREAS", Role: models.RoleUser})
}

const testCSV = "Date,Driver,iButton,Address,Latitude,Longitude\n" +
	"03/Nov/202506:12:38,Nikos,IB-1001,Depot,37.9838,23.7275\n"

func TestTrackingHandler_Upload(t *testing.T) {
	t.Run("successful upload", func(t *testing.T) {
		records := new(MockTrackingCollection)
		records.On("FindDuplicate", mock.Anything, mock.Anything).Return(false, nil)
		records.On("InsertRecords", mock.Anything, mock.Anything).Return(nil)

		handler := NewTrackingHandler(ingest.NewService(records), records)

		w := httptest.NewRecorder()
		handler.Upload(w, uploadRequest(t, "trips.csv", testCSV))

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ibutton", resp["record_type"])
		assert.Equal(t, float64(1), resp["records_count"])
		assert.Equal(t, float64(1), resp["new_records"])
		assert.Equal(t, float64(0), resp["duplicates_skipped"])
		records.AssertExpectations(t)
	})

	t.Run("duplicates reported", func(t *testing.T) {
		records := new(MockTrackingCollection)
		records.On("FindDuplicate", mock.Anything, mock.Anything).Return(true, nil)

		handler := NewTrackingHandler(ingest.NewService(records), records)

		w := httptest.NewRecorder()
		handler.Upload(w, uploadRequest(t, "trips.csv", testCSV))

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, float64(0), resp["new_records"])
		assert.Equal(t, float64(1), resp["duplicates_skipped"])
	})

	t.Run("rejects non-CSV file", func(t *testing.T) {
		records := new(MockTrackingCollection)
		handler := NewTrackingHandler(ingest.NewService(records), records)

		w := httptest.NewRecorder()
		handler.Upload(w, uploadRequest(t, "trips.xlsx", testCSV))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		records := new(MockTrackingCollection)
		handler := NewTrackingHandler(ingest.NewService(records), records)

		w := httptest.NewRecorder()
		handler.Upload(w, uploadRequest(t, "trips.csv", "Date,Foo\n1,2\n"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing file", func(t *testing.T) {
		records := new(MockTrackingCollection)
		handler := NewTrackingHandler(ingest.NewService(records), records)

		req := httptest.NewRequest("POST", "/api/tracking/upload", nil)
		req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
		w := httptest.NewRecorder()
		handler.Upload(w, withClaims(req, &models.Claims{Username: "ANDREAS", Role: models.RoleUser}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTrackingHandler_AddManual(t *testing.T) {
	addManual := func(records *MockTrackingCollection, req models.ManualTripRequest) *httptest.ResponseRecorder {
		handler := NewTrackingHandler(ingest.NewService(records), records)
		body, _ := json.Marshal(req)
		r := httptest.NewRequest("POST", "/api/tracking/add-manual", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		handler.AddManual(w, withClaims(r, &models.Claims{Username: "ANDREAS", Role: models.RoleUser}))
		return w
	}

	t.Run("successful add", func(t *testing.T) {
		records := new(MockTrackingCollection)
		records.On("FindDuplicate", mock.Anything, mock.Anything).Return(false, nil)
		records.On("InsertRecord", mock.Anything, mock.Anything).Return(nil)

		w := addManual(records, models.ManualTripRequest{
			RecordType: models.RecordTypeIButton,
			Date:       "2025-11-03T06:12:38",
			Identifier: "IB-1001",
			Latitude:   37.98,
			Longitude:  23.72,
		})
		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Record models.TrackingRecord `json:"record"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Record.ManualEntry)
		assert.Equal(t, "ANDREAS", resp.Record.UploadedBy)
	})

	t.Run("duplicate rejected", func(t *testing.T) {
		records := new(MockTrackingCollection)
		records.On("FindDuplicate", mock.Anything, mock.Anything).Return(true, nil)

		w := addManual(records, models.ManualTripRequest{
			RecordType: models.RecordTypeIButton,
			Date:       "2025-11-03T06:12:38",
			Identifier: "IB-1001",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "already exists")
	})

	t.Run("missing identifier rejected", func(t *testing.T) {
		records := new(MockTrackingCollection)

		w := addManual(records, models.ManualTripRequest{
			RecordType: models.RecordTypeIButton,
			Date:       "2025-11-03T06:12:38",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTrackingHandler_Records(t *testing.T) {
	sample := []models.TrackingRecord{
		{ID: "1", RecordType: models.RecordTypeIButton, IButton: "IB-1", Date: "2025-11-03T06:12:38"},
		{ID: "2", RecordType: models.RecordTypeIButton, IButton: "IB-2", Date: "2025-11-03T07:00:00"},
		{ID: "3", RecordType: models.RecordTypeIButton, IButton: "IB-1", Date: "2025-11-04T09:30:00"},
	}

	t.Run("plain query", func(t *testing.T) {
		records := new(MockTrackingCollection)
		records.On("FindRecords", mock.Anything, bson.M{"record_type": "ibutton"}).Return(sample, nil)

		handler := NewTrackingHandler(ingest.NewService(records), records)
		req := httptest.NewRequest("GET", "/api/tracking/records?record_type=ibutton", nil)
		w := httptest.NewRecorder()
		handler.Records(w, withClaims(req, &models.Claims{Username: "ANDREAS", Role: models.RoleUser}))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, float64(3), resp["count"])
		assert.NotContains(t, resp, "grouped")
	})

	t.Run("identifier filter", func(t *testing.T) {
		records := new(MockTrackingCollection)
		expected := bson.M{"$or": []bson.M{{"ibutton": "IB-1"}, {"vehicle": "IB-1"}}}
		records.On("FindRecords", mock.Anything, expected).Return(sample[:1], nil)

		handler := NewTrackingHandler(ingest.NewService(records), records)
		req := httptest.NewRequest("GET", "/api/tracking/records?identifier=IB-1", nil)
		w := httptest.NewRecorder()
		handler.Records(w, withClaims(req, &models.Claims{Username: "ANDREAS", Role: models.RoleUser}))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("identifier all groups records", func(t *testing.T) {
		records := new(MockTrackingCollection)
		records.On("FindRecords", mock.Anything, bson.M{}).Return(sample, nil)

		handler := NewTrackingHandler(ingest.NewService(records), records)
		req := httptest.NewRequest("GET", "/api/tracking/records?identifier=all", nil)
		w := httptest.NewRecorder()
		handler.Records(w, withClaims(req, &models.Claims{Username: "ANDREAS", Role: models.RoleUser}))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Count       int                                `json:"count"`
			Grouped     map[string][]models.TrackingRecord `json:"grouped"`
			Identifiers []string                           `json:"identifiers"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 3, resp.Count)
		assert.Len(t, resp.Grouped["IB-1"], 2)
		assert.Len(t, resp.Grouped["IB-2"], 1)
		assert.ElementsMatch(t, []string{"IB-1", "IB-2"}, resp.Identifiers)
	})

	t.Run("date range filter", func(t *testing.T) {
		records := new(MockTrackingCollection)
		expected := bson.M{"date": bson.M{"$gte": "2025-11-01", "$lte": "2025-11-30"}}
		records.On("FindRecords", mock.Anything, expected).Return(sample, nil)

		handler := NewTrackingHandler(ingest.NewService(records), records)
		req := httptest.NewRequest("GET", "/api/tracking/records?start_date=2025-11-01&end_date=2025-11-30", nil)
		w := httptest.NewRecorder()
		handler.Records(w, withClaims(req, &models.Claims{Username: "ANDREAS", Role: models.RoleUser}))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestTrackingHandler_Identifiers(t *testing.T) {
	records := new(MockTrackingCollection)
	records.On("DistinctValues", mock.Anything, "ibutton").Return([]string{"IB-1", "IB-2"}, nil)
	records.On("DistinctValues", mock.Anything, "vehicle").Return([]string{"(23) LAB 375"}, nil)

	handler := NewTrackingHandler(ingest.NewService(records), records)
	req := httptest.NewRequest("GET", "/api/tracking/identifiers", nil)
	w := httptest.NewRecorder()
	handler.Identifiers(w, withClaims(req, &models.Claims{Username: "ANDREAS", Role: models.RoleUser}))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string][]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"IB-1", "IB-2"}, resp["ibuttons"])
	assert.Equal(t, []string{"(23) LAB 375"}, resp["vehicles"])
}

func TestTrackingHandler_Stats(t *testing.T) {
	records := new(MockTrackingCollection)
	records.On("CountRecords", mock.Anything).Return(int64(42), nil)
	records.On("DistinctValues", mock.Anything, "ibutton").Return([]string{"IB-1", "IB-2"}, nil)
	records.On("DistinctValues", mock.Anything, "vehicle").Return([]string{"(23) LAB 375"}, nil)
	records.On("UploadStats", mock.Anything).Return([]models.UploaderStats{
		{UploadedBy: "ANDREAS", Count: 42},
	}, nil)

	handler := NewTrackingHandler(ingest.NewService(records), records)
	req := httptest.NewRequest("GET", "/api/tracking/stats", nil)
	w := httptest.NewRecorder()
	handler.Stats(w, withClaims(req, &models.Claims{Username: "ANDREAS", Role: models.RoleUser}))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.TrackingStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.TotalRecords)
	assert.Equal(t, 2, resp.UniqueIButtons)
	assert.Equal(t, 1, resp.UniqueVehicles)
	require.Len(t, resp.UploadsByUser, 1)
	assert.Equal(t, "ANDREAS", resp.UploadsByUser[0].UploadedBy)
}
