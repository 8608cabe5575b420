package schedules_test

import (
	"testing"

	"controller-migrate/core/controller"
	"controller-migrate/core/reconcile"
	"controller-migrate/feature/schedules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_Keys(t *testing.T) {
	adapter := schedules.NewAdapter(3)

	item := &schedules.Item{
		Schedule:     controller.Schedule{ID: 9, Name: "nightly", RRule: "DTSTART:20240101T000000Z RRULE:FREQ=DAILY"},
		TemplateName: "Deploy App",
	}

	tplKey, err := adapter.TemplateKey(item)
	require.NoError(t, err)
	assert.Equal(t, reconcile.NameOrgKey("Deploy App", 3), tplKey)

	key, err := adapter.Key(item)
	require.NoError(t, err)
	assert.Equal(t, reconcile.ScheduleKey(tplKey, "nightly"), key)
}

func TestAdapter_MissingTemplateName(t *testing.T) {
	adapter := schedules.NewAdapter(3)

	item := &schedules.Item{Schedule: controller.Schedule{Name: "nightly"}}

	_, err := adapter.TemplateKey(item)
	var nerr *reconcile.NormalizationError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "job_template", nerr.Field)
}

func TestAdapter_Payload(t *testing.T) {
	adapter := schedules.NewAdapter(3)

	t.Run("MissingRRule", func(t *testing.T) {
		item := &schedules.Item{
			Schedule:     controller.Schedule{Name: "nightly"},
			TemplateName: "Deploy App",
		}
		_, err := adapter.Payload(item)
		var nerr *reconcile.NormalizationError
		require.ErrorAs(t, err, &nerr)
		assert.Equal(t, "rrule", nerr.Field)
	})

	t.Run("Complete", func(t *testing.T) {
		item := &schedules.Item{
			Schedule: controller.Schedule{
				Name:      "nightly",
				RRule:     "DTSTART:20240101T000000Z RRULE:FREQ=DAILY",
				Enabled:   true,
				ExtraData: map[string]any{"env": "prod"},
			},
			TemplateName: "Deploy App",
		}
		payload, err := adapter.Payload(item)
		require.NoError(t, err)

		assert.Equal(t, "nightly", payload["name"])
		assert.Equal(t, true, payload["enabled"])
		assert.Equal(t, item.Schedule.ExtraData, payload["extra_data"])
		// The owning template's target ID is the planner's job.
		assert.NotContains(t, payload, "unified_job_template")
	})

	t.Run("EmptyExtraDataOmitted", func(t *testing.T) {
		item := &schedules.Item{
			Schedule:     controller.Schedule{Name: "hourly", RRule: "RRULE:FREQ=HOURLY"},
			TemplateName: "Deploy App",
		}
		payload, err := adapter.Payload(item)
		require.NoError(t, err)
		assert.NotContains(t, payload, "extra_data")
	})
}
