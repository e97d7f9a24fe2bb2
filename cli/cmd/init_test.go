package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// initContext returns a context carrying a parsed kong.Context whose config
// variable points at path.
func initContext(t *testing.T, cli any, path string, args ...string) context.Context {
	t.Helper()

	parser, err := kong.New(cli, kong.Vars{ConfigIdentifier: path})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(context.Background(), ktx)
}

func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		force    bool
		existing bool
		wantErr  error
	}{
		{name: "create_new_config"},
		{name: "overwrite_existing_with_force", force: true, existing: true},
		{name: "fail_without_force", existing: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.existing {
				if err := os.WriteFile(confPath, []byte("existing: true\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			var cli struct {
				LogLevel string `default:"info"`
			}

			ctx := initContext(t, &cli, confPath)

			err := (&Init{Force: tt.force}).Run(ctx)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrWriteConfig) {
					t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() error = %v", err)
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(content, &got); err != nil {
				t.Fatalf("generated config is not valid YAML: %v\n%s", err, content)
			}

			if got["log-level"] != "info" {
				t.Errorf("log-level = %v, want info\n%s", got["log-level"], content)
			}

			if _, ok := got["existing"]; ok {
				t.Error("existing content was not replaced")
			}
		})
	}
}

func TestInitDocument(t *testing.T) {
	t.Parallel()

	var cli struct {
		Verbose bool     `help:"Enable verbose output"`
		Output  string   `help:"Output file"`
		Tags    []string `help:"Tags"`
		Secret  string   `default:"x"                   hidden:""`

		Serve struct {
			Addr    string        `default:":8080"`
			Timeout time.Duration `default:"5s"`
			Prelude []string
		} `cmd:""`

		Init Init `cmd:""`
	}

	ctx := initContext(t, &cli, "unused", "--verbose", "--tags=a", "--tags=b", "serve")

	doc := (&Init{}).document(kongContextFrom(ctx))

	data, err := yaml.MarshalWithOptions(doc, yaml.Indent(defaultConfigIndent))
	if err != nil {
		t.Fatal(err)
	}

	// Flags are written in declaration order; unset, hidden and help flags
	// are omitted, as is the init command itself.
	var got map[string]any
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}

	if len(doc) != 3 || doc[0].Key != "verbose" || doc[1].Key != "tags" ||
		doc[2].Key != "serve" {
		t.Errorf("document keys = %v\n%s", doc, data)
	}

	serve, ok := got["serve"].(map[string]any)
	if !ok || serve["addr"] != ":8080" || serve["timeout"] != "5s" {
		t.Errorf("serve scope = %#v", got["serve"])
	}

	if _, ok := serve["prelude"]; ok {
		t.Error("empty list was written")
	}

	if _, ok := got["init"]; ok {
		t.Error("init command was written")
	}
}

func TestConfigValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"empty_string", "", nil},
		{"string", "text", "text"},
		{"bool", false, false},
		{"int", 3, 3},
		{"float", 0.5, 0.5},
		{"duration", 1500 * time.Millisecond, "1.5s"},
		{"empty_slice", []string{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := configValue(tt.in); got != tt.want {
				t.Errorf("configValue(%#v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}
