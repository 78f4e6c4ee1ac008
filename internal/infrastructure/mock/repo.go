package mock

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"text/tabwriter"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	metricsv1beta1 "k8s.io/metrics/pkg/apis/metrics/v1beta1"

	"github.com/HaPhanBaoMinh/kusage/internal/domain"
)

const mib = 1024 * 1024

// Repo fakes `kubectl top pods` for running without a cluster.
type Repo struct {
	rnd        *rand.Rand
	namespaces []string
}

func New(seed int64) *Repo {
	return &Repo{
		rnd:        rand.New(rand.NewSource(seed)),
		namespaces: []string{"default", "staging", "kube-system"},
	}
}

var pods = []struct {
	name, ctn string
}{
	{"api-7cfb9d9c9c-9tghd", "api"},
	{"api-7cfb9d9c9c-sj2lq", "api"},
	{"worker-5f7dcbffd6-2jqkz", "worker"},
	{"cart-6d79f8b5f7-m2x8l", "cart"},
}

// PodMetrics returns fake metrics.k8s.io samples for the pods in scope.
func (r *Repo) PodMetrics(mode domain.Mode) []metricsv1beta1.PodMetrics {
	nss := r.namespaces
	if !mode.AllNamespaces {
		nss = []string{mode.Namespace}
	}

	var out []metricsv1beta1.PodMetrics
	for _, ns := range nss {
		for _, p := range pods {
			cpu := int64(5 + r.rnd.Intn(400))
			mem := int64(32+r.rnd.Intn(800))*mib + int64(r.rnd.Intn(mib))
			usage := corev1.ResourceList{
				corev1.ResourceCPU:    *resource.NewMilliQuantity(cpu, resource.DecimalSI),
				corev1.ResourceMemory: *resource.NewQuantity(mem, resource.BinarySI),
			}
			out = append(out, metricsv1beta1.PodMetrics{
				ObjectMeta: metav1.ObjectMeta{Namespace: ns, Name: p.name},
				Containers: []metricsv1beta1.ContainerMetrics{{Name: p.ctn, Usage: usage}},
			})
		}
	}
	return out
}

// TopPods renders PodMetrics in the same table layout kubectl uses.
func (r *Repo) TopPods(ctx context.Context, mode domain.Mode) (string, error) {
	if err := mode.Validate(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return Render(r.PodMetrics(mode), mode.AllNamespaces), nil
}

// Render prints pod metrics like `kubectl top pods`: CPU in millicores,
// memory truncated to whole MiB, columns at least three spaces apart.
func Render(items []metricsv1beta1.PodMetrics, withNamespace bool) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 8, 3, ' ', 0)
	if withNamespace {
		fmt.Fprint(w, "NAMESPACE\t")
	}
	fmt.Fprintln(w, "NAME\tCPU(cores)\tMEMORY(bytes)")

	for _, pm := range items {
		cpu, mem := podUsage(pm)
		if withNamespace {
			fmt.Fprintf(w, "%s\t", pm.Namespace)
		}
		fmt.Fprintf(w, "%s\t%dm\t%dMi\n", pm.Name, cpu, mem/mib)
	}
	w.Flush()
	return b.String()
}

func podUsage(pm metricsv1beta1.PodMetrics) (cpuMilli, memBytes int64) {
	for _, c := range pm.Containers {
		if q, ok := c.Usage[corev1.ResourceCPU]; ok {
			cpuMilli += q.MilliValue()
		}
		if q, ok := c.Usage[corev1.ResourceMemory]; ok {
			memBytes += q.Value()
		}
	}
	return cpuMilli, memBytes
}
