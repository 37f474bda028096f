package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"outreachengine/internal/delivery/http/helpers"
	"outreachengine/internal/domain"
	"outreachengine/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandController_Execute(t *testing.T) {
	campaigns := &fakeCampaignService{results: []domain.DeliveryResult{
		{Target: "Sunny Days", Status: domain.StatusSuccess},
	}}
	router := services.NewCommandRouter(campaigns, &fakeSearchService{})
	controller := NewCommandController(discardLogger(), router)

	body := `{"action":"send_outreach","params":{"target_type":"daycare","count":4,"region":"USA"}}`
	req := httptest.NewRequest(http.MethodPost, "http://test/commands", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	controller.Execute(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.TargetDaycare, campaigns.gotReq.Kind)
	assert.Equal(t, 4, campaigns.gotReq.Count)

	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	require.Nil(t, envelope.Error)
	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), data["messages_sent"])
}

func TestCommandController_ExecuteSearch(t *testing.T) {
	search := &fakeSearchService{daycares: []*domain.Daycare{{ID: 1, Name: "Sunny Days"}}}
	router := services.NewCommandRouter(&fakeCampaignService{}, search)
	controller := NewCommandController(discardLogger(), router)

	body := `{"action":"search_daycares","params":{"city":"Austin"}}`
	req := httptest.NewRequest(http.MethodPost, "http://test/commands", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	controller.Execute(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Austin", search.gotDaycareFilter.City)
}

func TestCommandController_ExecuteValidation(t *testing.T) {
	router := services.NewCommandRouter(&fakeCampaignService{}, &fakeSearchService{})
	controller := NewCommandController(discardLogger(), router)

	tests := []struct {
		name string
		body string
	}{
		{"missing action", `{"params":{}}`},
		{"unknown action", `{"action":"delete_everything"}`},
		{"bad target type", `{"action":"send_outreach","params":{"target_type":"newsletter"}}`},
		{"malformed json", `{"action":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "http://test/commands", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			controller.Execute(rr, req)

			require.Equal(t, http.StatusBadRequest, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			require.NotNil(t, envelope.Error)
			assert.Equal(t, helpers.ErrCodeBadRequest, envelope.Error.Code)
		})
	}
}
