// internal/testutil/testutil.go
package testutil

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lacra/agritrace-backend/internal/config"
	"github.com/lacra/agritrace-backend/internal/database"
	"github.com/lacra/agritrace-backend/internal/utils"
)

const TestJWTSecret = "test-secret"

// SetupTestDB returns a migrated in-memory database private to the test.
// Everything shares a single connection so concurrent callers see one
// database and serialize on it.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig("silent"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.RunMigrations(db))
	return db
}

// TestConfig is a development configuration that needs no outside services.
func TestConfig(storagePath string) *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:      TestJWTSecret,
			Issuer:         "agritrace360",
			AccessTokenTTL: 1,
		},
		Sequence: config.SequenceConfig{
			Backend:        "memory",
			OverflowPolicy: "reject",
		},
		Storage: config.StorageConfig{
			Driver:    "local",
			LocalPath: storagePath,
			BaseURL:   "/uploads",
		},
		Label: config.LabelConfig{
			VerifyBaseURL: "https://verify.example.org/verify",
			Organization:  "LACRA - AgriTrace360™",
		},
		GPS: config.GPSConfig{
			TimeoutSeconds: 2,
			MaxAgeSeconds:  60,
		},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		I18n: config.I18nConfig{
			DefaultLocale: "en",
		},
	}
}

// GenerateToken signs a bearer token with TestJWTSecret.
func GenerateToken(t *testing.T, userID, username, role string) string {
	t.Helper()
	utils.SetJWTSecret(TestJWTSecret)
	utils.SetJWTIssuer("agritrace360")
	token, err := utils.GenerateJWT(userID, username, role, 1)
	require.NoError(t, err)
	return token
}
