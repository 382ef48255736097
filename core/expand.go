package core

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"strings"
	"text/template"
)

// optionFuncs are available to option values, e.g. {{ env "MYSQL_PASSWORD" }}.
var optionFuncs = template.FuncMap{
	"env": os.Getenv,
	"exec": func(line string) (string, error) {
		var cmd *exec.Cmd
		if strings.Contains(line, " | ") {
			cmd = exec.Command("sh", "-c", line)
		} else {
			args := strings.Fields(line)
			if len(args) < 1 {
				return "", errors.New("no command provided")
			}
			cmd = exec.Command(args[0], args[1:]...)
		}

		out, err := cmd.Output()
		return strings.TrimSpace(string(out)), err
	},
}

func expand(value string) (string, error) {
	if !strings.Contains(value, "{{") {
		return value, nil
	}

	tmpl, err := template.New("option").Funcs(optionFuncs).Parse(value)
	if err != nil {
		return "", err
	}

	var out bytes.Buffer
	if err := tmpl.Execute(&out, nil); err != nil {
		return "", err
	}

	return out.String(), nil
}

// expandOrDefault returns the literal value when expansion fails.
func expandOrDefault(value string) string {
	ex, err := expand(value)
	if err != nil {
		return value
	}
	return ex
}
