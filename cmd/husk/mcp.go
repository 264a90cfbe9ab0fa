package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/husk/internal/mcpserver"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio that exposes husk's dead code analysis
as a tool LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "husk": {
        "command": "husk",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze_deadcode    Unused declarations, exports and dependencies`,
		Action: func(c *cli.Context) error {
			return mcpserver.NewServer(version).Run(c.Context)
		},
		Subcommands: []*cli.Command{
			{
				Name:  "manifest",
				Usage: "Print the MCP registry manifest (server.json)",
				Action: func(c *cli.Context) error {
					raw, err := mcpserver.GenerateManifest(version)
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, string(raw))
					return nil
				},
			},
		},
	}
}
