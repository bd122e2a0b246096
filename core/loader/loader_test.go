package loader_test

import (
	"errors"
	"testing"

	"catalog-sync/core/loader"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type stubFeature struct {
	name    string
	enabled bool
	err     error
	loads   int
}

func (s *stubFeature) Name() string    { return s.name }
func (s *stubFeature) IsEnabled() bool { return s.enabled }
func (s *stubFeature) Load(app fiber.Router) error {
	s.loads++
	return s.err
}

func TestManager_LoadAll(t *testing.T) {
	t.Run("LoadsEnabledOnly", func(t *testing.T) {
		on := &stubFeature{name: "catalog", enabled: true}
		off := &stubFeature{name: "legacy"}

		mgr := loader.NewManager()
		mgr.Register(on)
		mgr.Register(off)

		assert.NoError(t, mgr.LoadAll(fiber.New()))
		assert.Equal(t, 1, on.loads)
		assert.Equal(t, 0, off.loads)
		assert.Equal(t, []string{"catalog"}, mgr.Loaded())
	})

	t.Run("StopsOnError", func(t *testing.T) {
		bad := &stubFeature{name: "catalog", enabled: true, err: errors.New("no db")}
		after := &stubFeature{name: "other", enabled: true}

		mgr := loader.NewManager()
		mgr.Register(bad)
		mgr.Register(after)

		err := mgr.LoadAll(fiber.New())
		assert.ErrorContains(t, err, "failed to load feature catalog")
		assert.Equal(t, 0, after.loads)
	})

	t.Run("DuplicateName", func(t *testing.T) {
		mgr := loader.NewManager()
		mgr.Register(&stubFeature{name: "catalog", enabled: true})
		mgr.Register(&stubFeature{name: "catalog", enabled: true})

		assert.ErrorContains(t, mgr.LoadAll(fiber.New()), "registered twice")
	})
}
