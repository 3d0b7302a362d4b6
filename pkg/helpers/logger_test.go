package helpers

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhudevswayam/service-app/pkg/apperr"
)

func TestLogErrorAddsKind(t *testing.T) {
	logger, hook := test.NewNullLogger()
	LogError(logger, "register failed", apperr.Wrap(apperr.KindStoreUnavailable, "storage is unavailable", errors.New("dial tcp")), logrus.Fields{"tenant_id": "acme"})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "acme", entry.Data["tenant_id"])
	assert.Equal(t, apperr.KindStoreUnavailable, entry.Data["kind"])
}

func TestLogWarnNilLogger(t *testing.T) {
	var logger *logrus.Logger
	assert.NotPanics(t, func() { LogWarn(logger, "ignored", errors.New("x"), nil) })
	assert.NotPanics(t, func() { LogError(nil, "ignored", nil, nil) })
}
