package database

import (
	"testing"

	"flowshare/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaPolicy(t *testing.T) {
	t.Run("HybridRunsBothInDevelopment", func(t *testing.T) {
		runSQL, runAuto, err := schemaPolicy(&config.Config{DBSchemaMode: "hybrid", Env: "development"})
		require.NoError(t, err)
		assert.True(t, runSQL)
		assert.True(t, runAuto)
	})

	t.Run("HybridSkipsAutoMigrateInProduction", func(t *testing.T) {
		runSQL, runAuto, err := schemaPolicy(&config.Config{DBSchemaMode: "hybrid", Env: "production"})
		require.NoError(t, err)
		assert.True(t, runSQL)
		assert.False(t, runAuto)
	})

	t.Run("EmptyModeDefaultsToHybrid", func(t *testing.T) {
		runSQL, runAuto, err := schemaPolicy(&config.Config{Env: "development"})
		require.NoError(t, err)
		assert.True(t, runSQL)
		assert.True(t, runAuto)
	})

	t.Run("SQLModeNeverAutoMigrates", func(t *testing.T) {
		runSQL, runAuto, err := schemaPolicy(&config.Config{DBSchemaMode: "sql", Env: "development"})
		require.NoError(t, err)
		assert.True(t, runSQL)
		assert.False(t, runAuto)
	})

	t.Run("AutoModeRefusedInProdLikeEnvs", func(t *testing.T) {
		for _, env := range []string{"production", "prod", "staging", "stage"} {
			_, _, err := schemaPolicy(&config.Config{DBSchemaMode: "auto", Env: env})
			assert.Error(t, err, "env %s", env)
		}
	})

	t.Run("AutoModeAllowedWithExplicitOverride", func(t *testing.T) {
		runSQL, runAuto, err := schemaPolicy(&config.Config{
			DBSchemaMode:                  "auto",
			Env:                           "production",
			DBAutoMigrateAllowDestructive: true,
		})
		require.NoError(t, err)
		assert.False(t, runSQL)
		assert.True(t, runAuto)
	})

	t.Run("UnknownModeIsAnError", func(t *testing.T) {
		_, _, err := schemaPolicy(&config.Config{DBSchemaMode: "yolo", Env: "development"})
		assert.Error(t, err)
	})
}

func TestIsProdLikeEnv(t *testing.T) {
	assert.True(t, isProdLikeEnv("Production"))
	assert.True(t, isProdLikeEnv(" staging "))
	assert.False(t, isProdLikeEnv("development"))
	assert.False(t, isProdLikeEnv("test"))
	assert.False(t, isProdLikeEnv(""))
}
