package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"outreachengine/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var daycareRows = []string{
	"id", "name", "address", "city", "email", "phone", "website", "region",
	"source", "last_contacted", "email_opened", "email_replied", "created_at", "updated_at",
}

var influencerRows = []string{
	"id", "name", "platform", "follower_count", "country", "email", "bio",
	"contact_page", "niche", "engagement_rate", "last_contacted",
	"email_opened", "email_replied", "created_at", "updated_at",
}

func TestRecipientRepository_SelectEligible_Daycares(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		region string
		mock   func(mock sqlmock.Sqlmock)
		want   int
	}{
		{
			name:   "no region filter",
			region: "",
			mock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(daycareRows).
					AddRow(1, "Sunny Days", "1 Main St", "Boston", "sunny@example.com", "", "", "USA", "yelp", nil, false, false, now, now).
					AddRow(2, "Les Petits", "", "Paris", "petits@example.fr", "", "", "FRANCE", "", nil, false, false, now, now)
				mock.ExpectQuery(`ORDER BY random\(\) LIMIT \$1`).
					WithArgs(10).
					WillReturnRows(rows)
			},
			want: 2,
		},
		{
			name:   "region filter is applied case-insensitively",
			region: "usa",
			mock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(daycareRows).
					AddRow(1, "Sunny Days", "1 Main St", "Boston", "sunny@example.com", "", "", "USA", "yelp", nil, false, false, now, now)
				mock.ExpectQuery(`AND upper\(region\) = upper\(\$1\) ORDER BY random\(\) LIMIT \$2`).
					WithArgs("usa", 10).
					WillReturnRows(rows)
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRecipientRepository(db)
			got, err := repo.SelectEligible(context.Background(), domain.TargetDaycare, tt.region, 10)
			require.NoError(t, err)
			require.Len(t, got, tt.want)
			for _, r := range got {
				assert.Equal(t, domain.TargetDaycare, r.Kind())
				assert.Nil(t, r.ContactedAt())
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRecipientRepository_SelectEligible_Influencers(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(influencerRows).
		AddRow(5, "Marie", "YOUTUBE", 120000, "FRANCE", "marie@example.fr", "", "", "parenting", 3.4, nil, false, false, now, now)
	mock.ExpectQuery(`FROM influencers`).
		WithArgs(3).
		WillReturnRows(rows)

	repo := NewRecipientRepository(db)
	got, err := repo.SelectEligible(context.Background(), domain.TargetInfluencer, "", 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	inf, ok := got[0].(*domain.Influencer)
	require.True(t, ok)
	assert.Equal(t, domain.PlatformYouTube, inf.Platform)
	assert.Equal(t, "FRANCE", inf.LocaleKey())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipientRepository_SelectEligible_UnknownKind(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRecipientRepository(db)
	_, err = repo.SelectEligible(context.Background(), "newsletter", "", 5)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipientRepository_SearchDaycares(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(daycareRows).
		AddRow(1, "Sunny Days", "", "Boston", "sunny@example.com", "", "", "USA", "", now, true, false, now, now)
	mock.ExpectQuery(`WHERE lower\(city\) = lower\(\$1\)`).
		WithArgs("Boston", 20).
		WillReturnRows(rows)

	repo := NewRecipientRepository(db)
	got, err := repo.SearchDaycares(context.Background(), domain.DaycareFilter{City: "Boston", Limit: 20})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Sunny Days", got[0].Name)
	require.NotNil(t, got[0].LastContacted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipientRepository_SearchInfluencers(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(influencerRows).
		AddRow(5, "Marie", "INSTAGRAM", 120000, "France", "marie@example.fr", "", "", "kids", 3.4, nil, false, false, now, now)
	mock.ExpectQuery(`AND lower\(country\) = lower\(\$1\) AND follower_count >= \$2`).
		WithArgs("France", 10000, 50).
		WillReturnRows(rows)

	repo := NewRecipientRepository(db)
	got, err := repo.SearchInfluencers(context.Background(), domain.InfluencerFilter{
		Country:      "France",
		MinFollowers: 10000,
		Limit:        50,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Instagram", got[0].Platform.Display())
	require.NoError(t, mock.ExpectationsWereMet())
}
