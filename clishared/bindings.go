package clishared

import (
	"github.com/dd-studio/jobsys/graph"
	"github.com/dd-studio/jobsys/session"
)

// CollectVarBindings walks np and returns one VarBinding per vertex
// whose metadata declares an env_var binding, with its value set to
// the concrete path component that vertex matched.
func CollectVarBindings(np *graph.NodePath) []session.VarBinding {
	var out []session.VarBinding

	for i := 1; i < np.Len(); i++ {
		v := np.Graph.Vertex(np.Indices[i])
		if v.Metadata.EnvVar == "" {
			continue
		}

		out = append(out, session.VarBinding{Name: v.Metadata.EnvVar, Value: np.Components[i-1]})
	}

	return out
}
