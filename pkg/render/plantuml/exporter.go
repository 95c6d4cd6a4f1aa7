// Package plantuml hands encoded descriptions to the external PlantUML
// renderer (java -jar plantuml.jar).
package plantuml

import (
	"bytes"
	"cmp"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/classdiagram/pkg/errors"
)

// Defaults used when the corresponding Exporter field is empty.
const (
	DefaultJava    = "java"
	DefaultJar     = "plantuml.jar"
	DefaultFormat  = "png"
	DefaultTimeout = 2 * time.Minute
)

// Formats lists the output formats PlantUML accepts as a -<format> flag.
var Formats = []string{"png", "svg", "eps", "pdf", "vdx", "xmi", "scxml", "html", "txt", "utxt", "latex"}

// Exporter runs PlantUML on description files. The zero value runs
// "java -jar plantuml.jar" from PATH and the working directory.
type Exporter struct {
	Java    string        // java executable
	Jar     string        // path to plantuml.jar
	Timeout time.Duration // per export; zero uses DefaultTimeout
	Logger  *log.Logger   // optional
}

// ValidateFormat reports whether PlantUML can produce format. The empty
// format selects PlantUML's default, PNG.
func ValidateFormat(format string) error {
	if format == "" || slices.Contains(Formats, format) {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported export format %q (want one of %s)", format, strings.Join(Formats, ", "))
}

// OutputPath returns the file PlantUML writes for a description path.
func OutputPath(path, format string) string {
	if format == "" {
		format = DefaultFormat
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + format
}

// Export renders the description at path. When format is empty no flag is
// passed and PlantUML writes PNG. Failures carry [errors.ErrCodeExport]; the
// description file is left in place.
func (e *Exporter) Export(ctx context.Context, path, format string) (string, error) {
	if err := ValidateFormat(format); err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "export %s", path)
	}
	java, err := exec.LookPath(cmp.Or(e.Java, DefaultJava))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeExport, err, "plantuml export requires java")
	}
	jar := cmp.Or(e.Jar, DefaultJar)
	if _, err := os.Stat(jar); err != nil {
		return "", errors.Wrap(errors.ErrCodeExport, err, "plantuml jar %s", jar)
	}

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{"-jar", jar, path}
	if format != "" {
		args = append(args, "-"+format)
	}
	if e.Logger != nil {
		e.Logger.Debug("running plantuml", "java", java, "args", strings.Join(args, " "))
	}

	cmd := exec.CommandContext(ctx, java, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	start := time.Now()
	if err := cmd.Run(); err != nil {
		return "", errors.Wrap(errors.ErrCodeExport, err, "plantuml: %s", strings.TrimSpace(out.String()))
	}

	output := OutputPath(path, format)
	if e.Logger != nil {
		e.Logger.Info("exported diagram", "file", output, "elapsed", time.Since(start).Round(time.Millisecond))
	}
	return output, nil
}
