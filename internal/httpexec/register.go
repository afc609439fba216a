package httpexec

import (
	"net/http"

	"github.com/volleyhq/volley/internal/loadtest/protocol"
)

// RegisterAll wires the HTTP, GraphQL and SOAP executors into reg, all
// sharing one pooled client.
func RegisterAll(reg *protocol.Registry, client *http.Client) error {
	if client == nil {
		client = NewClient(DefaultClientConfig())
	}
	executors := []protocol.Executor{
		New(client),
		NewGraphQL(client),
		NewSOAP(client),
	}
	for _, exec := range executors {
		if err := reg.Register(exec); err != nil {
			return err
		}
	}
	return nil
}
