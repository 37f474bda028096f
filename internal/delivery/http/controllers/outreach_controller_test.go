package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"outreachengine/internal/delivery/http/helpers"
	"outreachengine/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCampaignService implements domain.CampaignService for handler tests.
type fakeCampaignService struct {
	gotReq  domain.CampaignRequest
	results []domain.DeliveryResult
	err     error
}

func (f *fakeCampaignService) RunCampaign(_ context.Context, req domain.CampaignRequest) ([]domain.DeliveryResult, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

// fakeOutreachStore implements domain.OutreachStore for handler tests.
type fakeOutreachStore struct {
	gotKind  domain.TargetKind
	gotLimit int
	entries  []*domain.LedgerEntry
	err      error
}

func (f *fakeOutreachStore) RecordOutcome(context.Context, *domain.LedgerEntry) error { return nil }

func (f *fakeOutreachStore) ListRecent(_ context.Context, kind domain.TargetKind, limit int) ([]*domain.LedgerEntry, error) {
	f.gotKind = kind
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func TestOutreachController_RunCampaign(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		campaigns    *fakeCampaignService
		wantStatus   int
		wantBodyCode string
		checkReq     func(t *testing.T, req domain.CampaignRequest)
	}{
		{
			name: "success",
			body: `{"target_type":"daycare","count":5,"region":"USA"}`,
			campaigns: &fakeCampaignService{results: []domain.DeliveryResult{
				{Target: "Sunny Days", Email: "sunny@example.com", Status: domain.StatusSuccess},
				{Target: "Little Stars", Email: "stars@example.com", Status: domain.StatusFailed, Error: "timeout"},
			}},
			wantStatus: http.StatusOK,
			checkReq: func(t *testing.T, req domain.CampaignRequest) {
				assert.Equal(t, domain.TargetDaycare, req.Kind)
				assert.Equal(t, 5, req.Count)
				assert.Equal(t, "USA", req.RegionFilter)
				assert.Nil(t, req.Override)
				assert.Nil(t, req.Sender)
			},
		},
		{
			name:       "custom content and sender",
			body:       `{"target_type":"influencer","count":3,"subject":"Hi","body":"Hello {{.recipient_name}}","sender_name":"Alice","sender_email":"alice@example.com"}`,
			campaigns:  &fakeCampaignService{},
			wantStatus: http.StatusOK,
			checkReq: func(t *testing.T, req domain.CampaignRequest) {
				require.NotNil(t, req.Override)
				assert.Equal(t, "Hi", req.Override.Subject)
				require.NotNil(t, req.Sender)
				assert.Equal(t, "alice@example.com", req.Sender.Address)
			},
		},
		{
			name:         "invalid target type",
			body:         `{"target_type":"newsletter","count":5}`,
			campaigns:    &fakeCampaignService{},
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "zero count",
			body:         `{"target_type":"daycare","count":0}`,
			campaigns:    &fakeCampaignService{},
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "unknown field",
			body:         `{"target_type":"daycare","count":5,"bogus":true}`,
			campaigns:    &fakeCampaignService{},
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "engine failure",
			body:         `{"target_type":"daycare","count":5}`,
			campaigns:    &fakeCampaignService{err: errors.New("open delivery channel: dial failed")},
			wantStatus:   http.StatusInternalServerError,
			wantBodyCode: helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller := NewOutreachController(discardLogger(), tt.campaigns, &fakeOutreachStore{})
			req := httptest.NewRequest(http.MethodPost, "http://test/outreach/campaigns", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			controller.RunCampaign(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantBodyCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
				return
			}
			require.Nil(t, envelope.Error)
			data, ok := envelope.Data.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, float64(len(tt.campaigns.results)), data["messages_sent"])
			if tt.checkReq != nil {
				tt.checkReq(t, tt.campaigns.gotReq)
			}
		})
	}
}

func TestOutreachController_History(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	store := &fakeOutreachStore{entries: []*domain.LedgerEntry{
		{ID: 2, TargetKind: domain.TargetDaycare, TargetID: 7, Subject: "Hi", Language: "en", SentAt: now},
		{ID: 1, TargetKind: domain.TargetDaycare, TargetID: 3, Subject: "Bonjour", Language: "fr", SentAt: now.Add(-time.Hour), Bounced: true},
	}}
	controller := NewOutreachController(discardLogger(), &fakeCampaignService{}, store)

	req := httptest.NewRequest(http.MethodGet, "http://test/outreach/history?target_type=daycare&limit=10", nil)
	rr := httptest.NewRecorder()
	controller.History(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.TargetDaycare, store.gotKind)
	assert.Equal(t, 10, store.gotLimit)

	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	require.Nil(t, envelope.Error)
	entries, ok := envelope.Data.([]any)
	require.True(t, ok)
	assert.Len(t, entries, 2)
}

func TestOutreachController_HistoryValidation(t *testing.T) {
	controller := NewOutreachController(discardLogger(), &fakeCampaignService{}, &fakeOutreachStore{})

	req := httptest.NewRequest(http.MethodGet, "http://test/outreach/history?target_type=newsletter", nil)
	rr := httptest.NewRecorder()
	controller.History(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestOutreachController_HistoryEmpty(t *testing.T) {
	controller := NewOutreachController(discardLogger(), &fakeCampaignService{}, &fakeOutreachStore{})

	req := httptest.NewRequest(http.MethodGet, "http://test/outreach/history", nil)
	rr := httptest.NewRecorder()
	controller.History(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	// Empty result is an empty list, never null.
	assert.Contains(t, rr.Body.String(), `"data":[]`)
}
