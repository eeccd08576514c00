package notify

import (
	"os"
	"testing"

	"github.com/talenthub/talenthub/pkg/log"
)

func TestMain(m *testing.M) {
	log.MustInit(log.SetDefaults())
	os.Exit(m.Run())
}
