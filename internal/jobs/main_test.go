package jobs

import (
	"os"
	"testing"

	"github.com/azizjun/kvartal-api/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Setup("test")
	os.Exit(m.Run())
}
