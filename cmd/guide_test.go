package cmd

import "testing"

func TestGuide(t *testing.T) {
	t.Run("main guide", func(t *testing.T) {
		env := newBareEnv(t)

		out := env.run("guide")
		env.contains(out, "# beamtime")
		env.contains(out, "Quick start")
		env.contains(out, "check-path")
	})

	t.Run("lists available on not found", func(t *testing.T) {
		env := newBareEnv(t)

		out, err := env.runErr("guide", "nonexistent")
		if err == nil {
			t.Error("guide nonexistent: want error")
		}
		env.contains(out, "Available:")
		env.contains(out, "queue")
	})
}

func TestGuide_Topics(t *testing.T) {
	tests := []struct {
		topic   string
		contain string
	}{
		{"queue", "create_update_queue"},
		{"paths", "sftp://"},
		{"seed", "beamtime seed"},
		{"serve", "validate_data_path"},
	}

	for _, tc := range tests {
		t.Run(tc.topic, func(t *testing.T) {
			env := newBareEnv(t)
			env.contains(env.run("guide", tc.topic), tc.contain)
		})
	}
}
