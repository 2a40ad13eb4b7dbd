package validate

import (
	"context"
	"errors"
	"go/token"
	"os"
	"os/exec"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nikki93/gxsl/decl"
	"github.com/nikki93/gxsl/diag"
	"github.com/nikki93/gxsl/shader"
)

func testClass(stage shader.Stage) *decl.Class {
	class := decl.NewClass("S", "example.com/shaders", token.Position{Filename: "s.go", Line: 3, Column: 6})
	class.Stage = stage
	return class
}

var glslSource = shader.GeneratedShaderSource{
	Backend: shader.GLSL330,
	Type:    shader.Text,
	Text:    "#version 330 core\nvoid main() {\n}\n",
}

func TestProfileFor(t *testing.T) {
	tests := []struct {
		name  shader.Name
		stage shader.Stage
		want  Profile
	}{
		{shader.GLSL330, shader.Vertex, Profile{Tool: ToolGlslang, Args: []string{"-S", "vert"}, Ext: ".vert"}},
		{shader.ESSL300, shader.Fragment, Profile{Tool: ToolGlslang, Args: []string{"-S", "frag"}, Ext: ".frag"}},
		{shader.HLSL, shader.Fragment, Profile{Tool: ToolDXC, Args: []string{"-T", "ps_6_0", "-E", "main"}, Ext: ".hlsl"}},
		{shader.SPIRV, shader.Vertex, Profile{Tool: ToolSPIRVVal, Args: []string{"--target-env", "vulkan1.1"}, Ext: ".spv"}},
		{shader.WGSL, shader.Vertex, Profile{Tool: ToolNaga, Ext: ".wgsl"}},
	}
	for _, tt := range tests {
		got, ok := ProfileFor(tt.name, tt.stage)
		if !ok || !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ProfileFor(%s, %s) = %+v, %v; want %+v", tt.name, tt.stage, got, ok, tt.want)
		}
	}
	if _, ok := ProfileFor("MSL", shader.Vertex); ok {
		t.Error("profile for an unknown backend")
	}
}

func TestStub(t *testing.T) {
	var v Validator = Stub{}
	if v.CanExecute() {
		t.Error("stub can execute")
	}
	ok, diags := v.ValidateShader(context.Background(), testClass(shader.Vertex), glslSource, Profile{})
	if ok || len(diags) > 0 {
		t.Errorf("stub returned %v, %v", ok, diags)
	}
}

func TestTool_Unavailable(t *testing.T) {
	tool := NewTool("gxsl-no-such-validator", 0)
	defer tool.Close()
	if tool.CanExecute() {
		t.Fatal("missing tool can execute")
	}
	if _, err := tool.Path(); !errors.Is(err, ErrToolUnavailable) {
		t.Errorf("Path() error = %v, want ErrToolUnavailable", err)
	}
	ok, diags := tool.ValidateShader(context.Background(), testClass(shader.Vertex), glslSource, Profile{Tool: ToolGlslang})
	if ok || len(diags) > 0 {
		t.Errorf("missing tool returned %v, %v", ok, diags)
	}
	if tool.dir != "" {
		t.Error("missing tool created a scratch directory")
	}
}

func shell(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("no sh on this host")
	}
	return sh
}

func TestTool_Run(t *testing.T) {
	sh := shell(t)
	tests := []struct {
		name    string
		script  string
		timeout time.Duration
		wantOK  bool
		wantID  diag.ID
		message string
	}{
		{
			name:   "pass",
			script: `grep -q "#version 330" "$0"`,
			wantOK: true,
		},
		{
			name:    "fail",
			script:  `echo "ERROR: 0:2: 'main' : bad" >&2; exit 2`,
			wantID:  diag.ValidationFailed,
			message: "ERROR: 0:2: 'main' : bad",
		},
		{
			name:    "timeout",
			script:  `sleep 5`,
			timeout: 100 * time.Millisecond,
			wantID:  diag.ValidationTimeout,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := NewTool(sh, tt.timeout)
			defer tool.Close()
			class := testClass(shader.Vertex)
			ok, diags := tool.ValidateShader(context.Background(), class, glslSource, Profile{Args: []string{"-c", tt.script}, Ext: ".vert"})
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v (%v)", ok, tt.wantOK, diags)
			}
			if tt.wantID == "" {
				if len(diags) > 0 {
					t.Errorf("unexpected diagnostics: %v", diags)
				}
				return
			}
			if len(diags) != 1 {
				t.Fatalf("got %v, want one %s", diags, tt.wantID)
			}
			d := diags[0]
			if d.ID != tt.wantID || d.Severity != diag.Warning {
				t.Errorf("got %s %s, want warning %s", d.Severity, d.ID, tt.wantID)
			}
			if d.Shader != class.QualifiedName() || d.Backend != string(shader.GLSL330) {
				t.Errorf("attributed to %q/%q", d.Shader, d.Backend)
			}
			if !strings.Contains(d.Message, tt.message) {
				t.Errorf("message %q does not contain %q", d.Message, tt.message)
			}
		})
	}
}

func TestTool_Scratch(t *testing.T) {
	sh := shell(t)
	tool := NewTool(sh, 0)
	profile := Profile{Args: []string{"-c", "true"}, Ext: ".vert"}
	class := testClass(shader.Vertex)
	if ok, diags := tool.ValidateShader(context.Background(), class, glslSource, profile); !ok {
		t.Fatalf("validation failed: %v", diags)
	}
	entries, err := os.ReadDir(tool.dir)
	if err != nil || len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), ".vert") {
		t.Fatalf("scratch directory holds %v (%v)", entries, err)
	}

	if err := tool.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(tool.dir); !os.IsNotExist(err) {
		t.Errorf("scratch directory survived Close: %v", err)
	}

	// Writing into the removed directory is an adapter failure, not a
	// validation failure.
	_, diags := tool.ValidateShader(context.Background(), class, glslSource, profile)
	if len(diags) != 1 || diags[0].ID != diag.ValidatorInternal {
		t.Errorf("got %v, want %s", diags, diag.ValidatorInternal)
	}
}

func TestTool_Cancelled(t *testing.T) {
	sh := shell(t)
	tool := NewTool(sh, 0)
	defer tool.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok, diags := tool.ValidateShader(ctx, testClass(shader.Vertex), glslSource, Profile{Args: []string{"-c", "true"}})
	if ok || len(diags) > 0 {
		t.Errorf("cancelled run returned %v, %v", ok, diags)
	}
}

func TestNagaValidator(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		wantOK bool
	}{
		{
			name: "valid",
			text: `@vertex
fn main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`,
			wantOK: true,
		},
		{
			name: "syntax error",
			text: "@vertex\nfn main( -> {\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := shader.GeneratedShaderSource{Backend: shader.WGSL, Type: shader.Text, Text: tt.text}
			ok, diags := NagaValidator{}.ValidateShader(context.Background(), testClass(shader.Vertex), source, Profile{Tool: ToolNaga})
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v (%v)", ok, tt.wantOK, diags)
			}
			if !tt.wantOK && (len(diags) != 1 || diags[0].ID != diag.ValidationFailed || diags[0].Severity != diag.Warning) {
				t.Errorf("got %v, want one %s warning", diags, diag.ValidationFailed)
			}
		})
	}
}

// recorder is a validator that counts runs and tracks their concurrency.
type recorder struct {
	mu      sync.Mutex
	running int
	peak    int
	runs    atomic.Int32
}

func (r *recorder) CanExecute() bool { return true }

func (r *recorder) ValidateShader(ctx context.Context, class *decl.Class, source shader.GeneratedShaderSource, profile Profile) (bool, diag.List) {
	r.runs.Add(1)
	r.mu.Lock()
	r.running++
	if r.running > r.peak {
		r.peak = r.running
	}
	r.mu.Unlock()
	time.Sleep(10 * time.Millisecond)
	r.mu.Lock()
	r.running--
	r.mu.Unlock()
	return true, nil
}

func TestPool(t *testing.T) {
	rec := &recorder{}
	pool := NewPool(2, map[string]Validator{ToolGlslang: rec, ToolDXC: Stub{}})
	defer pool.Close()
	class := testClass(shader.Fragment)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := pool.Validate(context.Background(), class, glslSource); !ok {
				t.Error("validation did not run")
			}
		}()
	}
	wg.Wait()
	if rec.runs.Load() != 8 {
		t.Errorf("ran %d times, want 8", rec.runs.Load())
	}
	if rec.peak > 2 {
		t.Errorf("%d validations ran at once, want at most 2", rec.peak)
	}

	skipped := map[string]shader.GeneratedShaderSource{
		"stub":         {Backend: shader.HLSL, Type: shader.Text, Text: "float4 main() : SV_Target0 { return 0; }"},
		"no validator": {Backend: shader.SPIRV, Type: shader.Binary, Bytes: []byte{3, 2, 0x23, 7}},
		"no profile":   {Backend: "MSL", Type: shader.Text, Text: "kernel"},
		"empty":        {Backend: shader.GLSL330, Type: shader.Text},
	}
	for name, source := range skipped {
		if ok, diags := pool.Validate(context.Background(), class, source); ok || len(diags) > 0 {
			t.Errorf("%s: got %v, %v", name, ok, diags)
		}
	}
	if rec.runs.Load() != 8 {
		t.Errorf("skipped sources reached the validator")
	}
}

func TestPool_Cancelled(t *testing.T) {
	rec := &recorder{}
	pool := NewPool(1, map[string]Validator{ToolGlslang: rec})
	if err := pool.sem.Acquire(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	defer pool.sem.Release(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if ok, diags := pool.Validate(ctx, testClass(shader.Vertex), glslSource); ok || len(diags) > 0 {
		t.Errorf("got %v, %v", ok, diags)
	}
	if rec.runs.Load() != 0 {
		t.Error("cancelled validation ran")
	}
}

func TestTools(t *testing.T) {
	tools := Tools(map[string]string{ToolDXC: "/opt/dxc/bin/dxc"}, time.Second)
	for _, name := range []string{ToolGlslang, ToolDXC, ToolSPIRVVal, ToolNaga} {
		if _, ok := tools[name]; !ok {
			t.Errorf("no validator for %s", name)
		}
	}
	if got := tools[ToolDXC].(*Tool).Bin; got != "/opt/dxc/bin/dxc" {
		t.Errorf("dxc runs %q", got)
	}
	if got := tools[ToolSPIRVVal].(*Tool).Timeout; got != time.Second {
		t.Errorf("timeout = %s", got)
	}
}
