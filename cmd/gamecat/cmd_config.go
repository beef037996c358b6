package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func handleConfigCommand(args []string) int {
	if len(args) < 1 {
		fmt.Println("Usage: gamecat config <command>")
		fmt.Println("Commands: show, init")
		return 1
	}

	switch args[0] {
	case "show":
		return showConfig()
	case "init":
		return initConfig(".gamecat.yaml")
	default:
		PrintError("Unknown config command: %s\n", args[0])
		return 1
	}
}

func showConfig() int {
	if outputCfg.JSON {
		PrintResult(cfg)
		return 0
	}

	// Pretty print as YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		PrintError("Error: failed to marshal config: %v\n", err)
		return 1
	}

	fmt.Println("# Active Configuration")
	fmt.Println(string(data))
	fmt.Println("# Catalog file:", cfg.GetCatalogPath())
	return 0
}

const exampleConfig = `# gamecat configuration

# Catalog document (default: <user config dir>/gamecat/catalog.json)
# catalog_path: C:\Users\me\AppData\Roaming\gamecat\catalog.json

# Write Prometheus metrics here after each command (node_exporter textfile collector)
# metrics_file: /var/lib/node_exporter/textfile/gamecat.prom

# Launcher locations. When path is empty the registry is consulted,
# then the launcher's default install location.
sources:
  steam:
    path: ""        # Steam install dir, e.g. C:\Program Files (x86)\Steam
    disabled: false
  epic:
    path: ""        # Epic Manifests dir
    disabled: false
  gog:
    path: ""        # GOG Galaxy galaxy-2.0.db file
    disabled: false

logging:
  level: info   # debug, info, warn, error
  format: text  # text or json
`

func initConfig(configPath string) int {
	// Check if file exists
	if _, err := os.Stat(configPath); err == nil {
		PrintError("Error: config file already exists at %s\n", configPath)
		return 1
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil { //nolint:gosec // not secret
		PrintError("Error: failed to write config: %v\n", err)
		return 1
	}

	if outputCfg.JSON {
		PrintResult(map[string]string{"path": configPath, "status": "created"})
	} else {
		PrintInfo("Created config file: %s\n", configPath)
	}
	return 0
}
