package k8s

import (
	"errors"
	"fmt"

	"k8s.io/client-go/tools/clientcmd"
)

var ErrUnknownContext = errors.New("context not found in kubeconfig")

// Target is the kubeconfig/context pair kubectl should be pointed at.
type Target struct {
	Kubeconfig string
	Context    string
	Cluster    string // informational, from the resolved context
}

// ResolveKubeconfig loads the kubeconfig from disk and checks that the
// requested context exists. Nothing is sent to the API server.
//
// With no explicit path and no loadable config the zero Target is returned,
// leaving kubectl to its own defaults (in-cluster config etc).
func ResolveKubeconfig(kubeconfigPath, contextName string) (Target, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfigPath != "" {
		rules.ExplicitPath = kubeconfigPath
	}
	overrides := &clientcmd.ConfigOverrides{}
	if contextName != "" {
		overrides.CurrentContext = contextName
	}

	raw, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).RawConfig()
	if err != nil {
		if kubeconfigPath == "" && contextName == "" {
			return Target{}, nil
		}
		return Target{}, fmt.Errorf("load kubeconfig: %w", err)
	}

	name := raw.CurrentContext
	if contextName != "" {
		name = contextName
	}
	t := Target{Kubeconfig: kubeconfigPath, Context: contextName}
	if name == "" {
		return t, nil
	}

	kctx, ok := raw.Contexts[name]
	if !ok {
		if contextName == "" {
			// a dangling current-context is kubectl's problem to report
			return t, nil
		}
		return Target{}, fmt.Errorf("%w: %q", ErrUnknownContext, name)
	}
	t.Cluster = kctx.Cluster
	return t, nil
}
