package k8s

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

func writeKubeconfig(t *testing.T) string {
	t.Helper()
	cfg := clientcmdapi.NewConfig()
	cfg.Clusters["staging-cluster"] = &clientcmdapi.Cluster{Server: "https://staging.example.com"}
	cfg.Clusters["prod-cluster"] = &clientcmdapi.Cluster{Server: "https://prod.example.com"}
	cfg.AuthInfos["dev"] = &clientcmdapi.AuthInfo{Token: "t"}
	cfg.Contexts["staging"] = &clientcmdapi.Context{Cluster: "staging-cluster", AuthInfo: "dev"}
	cfg.Contexts["prod"] = &clientcmdapi.Context{Cluster: "prod-cluster", AuthInfo: "dev"}
	cfg.CurrentContext = "staging"

	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, clientcmd.WriteToFile(*cfg, path))
	return path
}

func TestResolveKubeconfig_CurrentContext(t *testing.T) {
	path := writeKubeconfig(t)

	got, err := ResolveKubeconfig(path, "")
	require.NoError(t, err)
	assert.Equal(t, Target{Kubeconfig: path, Cluster: "staging-cluster"}, got)
}

func TestResolveKubeconfig_ExplicitContext(t *testing.T) {
	path := writeKubeconfig(t)

	got, err := ResolveKubeconfig(path, "prod")
	require.NoError(t, err)
	assert.Equal(t, Target{Kubeconfig: path, Context: "prod", Cluster: "prod-cluster"}, got)
}

func TestResolveKubeconfig_UnknownContext(t *testing.T) {
	path := writeKubeconfig(t)

	_, err := ResolveKubeconfig(path, "nope")
	assert.True(t, errors.Is(err, ErrUnknownContext), "got %v", err)
}

func TestResolveKubeconfig_MissingExplicitFile(t *testing.T) {
	_, err := ResolveKubeconfig(filepath.Join(t.TempDir(), "absent"), "")
	assert.Error(t, err)
}

func TestResolveKubeconfig_NothingConfigured(t *testing.T) {
	t.Setenv("KUBECONFIG", filepath.Join(t.TempDir(), "absent"))
	t.Setenv("HOME", t.TempDir())

	got, err := ResolveKubeconfig("", "")
	require.NoError(t, err)
	assert.Equal(t, Target{}, got)
}
