package commands

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/curate/pkg/commands/options"
	"tableflip.dev/curate/pkg/runner/mcp"
)

// mcpOptions are the flags of `curate mcp`.
type mcpOptions struct {
	transport string
	host      string
	port      int
	path      string
	tlsCert   string
	tlsKey    string
}

func (o *mcpOptions) endpoint() string {
	path := strings.TrimSpace(o.path)
	if path == "" {
		return "/mcp"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func (o *mcpOptions) listenAddr() (string, error) {
	if o.port < 0 || o.port > 65535 {
		return "", fmt.Errorf("invalid --port %d", o.port)
	}
	host := strings.TrimSpace(o.host)
	if host == "" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, strconv.Itoa(o.port)), nil
}

// announce prints the URL agents should connect to. Wildcard binds are
// shown as the loopback address.
func announce(cmd *cobra.Command, a net.Addr, tls bool, path string) {
	scheme := "http"
	if tls {
		scheme = "https"
	}
	host := a.String()
	if tcp, ok := a.(*net.TCPAddr); ok {
		ip := tcp.IP
		if ip == nil || ip.IsUnspecified() {
			ip = net.IPv4(127, 0, 0, 1)
		}
		host = net.JoinHostPort(ip.String(), strconv.Itoa(tcp.Port))
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "curate MCP server ready at %s://%s%s\n", scheme, host, path)
}

func addMCP(topLevel *cobra.Command) {
	o := &mcpOptions{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve collections to agents over the Model Context Protocol",
		Long: options.Wrap80(`Serve the local collections over the Model Context Protocol. Agents can
list collections and unplaced tokens, stage section and token edits as drafts,
inspect the save payload and save or discard it, the same as the CLI.`),
		Example: `
curate mcp --transport stdio
curate mcp --port 0
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService()
			if err != nil {
				return err
			}

			runner := mcp.Runner{
				Service:          svc,
				Name:             "curate",
				Version:          version,
				HTTPEndpointPath: o.endpoint(),
				HTTPServerCert:   strings.TrimSpace(o.tlsCert),
				HTTPServerKey:    strings.TrimSpace(o.tlsKey),
			}

			switch mcp.Transport(strings.ToLower(strings.TrimSpace(o.transport))) {
			case "", mcp.TransportHTTP:
				addr, err := o.listenAddr()
				if err != nil {
					return err
				}
				runner.Transport = mcp.TransportHTTP
				runner.HTTPListenAddr = addr
				tls := runner.HTTPServerCert != "" && runner.HTTPServerKey != ""
				runner.OnHTTPListening = func(a net.Addr) {
					announce(cmd, a, tls, runner.HTTPEndpointPath)
				}
			case mcp.TransportStdio:
				runner.Transport = mcp.TransportStdio
			default:
				return fmt.Errorf("unsupported transport %q, want http or stdio", o.transport)
			}

			cmd.SilenceUsage = true
			return runner.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&o.transport, "transport", string(mcp.TransportHTTP), "How agents connect: http or stdio.")
	cmd.Flags().StringVar(&o.host, "host", "127.0.0.1", "Interface the http transport binds to.")
	cmd.Flags().IntVar(&o.port, "port", 8080, "Port for the http transport, 0 picks a free one.")
	cmd.Flags().StringVar(&o.path, "path", "/mcp", "URL path agents post MCP requests to.")
	cmd.Flags().StringVar(&o.tlsCert, "tls-cert", "", "Certificate file; with --tls-key serves https.")
	cmd.Flags().StringVar(&o.tlsKey, "tls-key", "", "Private key file for --tls-cert.")

	topLevel.AddCommand(cmd)
}
