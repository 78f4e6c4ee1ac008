package usage

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/HaPhanBaoMinh/kusage/internal/domain"
)

func TestParseCPU(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"500m", 500},
		{"0m", 0},
		{"2", 2000},
		{"0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCPU(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCPU_NonNumeric(t *testing.T) {
	for _, in := range []string{"abcm", "1.5", "", "m"} {
		_, err := ParseCPU(in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, ErrNonNumeric), in)
	}
}

func TestParseMemory(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"256Mi", 256},
		{"2Gi", 2048},
		{"256Ki", 0},
		{"1024", 0},
		{"3Ti", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMemory(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMemory_NonNumeric(t *testing.T) {
	_, err := ParseMemory("lotsMi")
	var ne *NumberError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, "memory", ne.Column)
	assert.Equal(t, "lotsMi", ne.Value)
}

func TestParseRow(t *testing.T) {
	row, ok := ParseRow([]string{"kube-system", "coredns-1", "3m", "12Mi"}, domain.AllNamespaces())
	require.True(t, ok)
	assert.Equal(t, Row{Namespace: "kube-system", CPU: "3m", Memory: "12Mi"}, row)

	row, ok = ParseRow([]string{"web-0", "100m", "64Mi"}, domain.InNamespace("shop"))
	require.True(t, ok)
	assert.Equal(t, Row{Namespace: "default", CPU: "100m", Memory: "64Mi"}, row)

	_, ok = ParseRow([]string{"web-0", "100m", "64Mi"}, domain.AllNamespaces())
	assert.False(t, ok)
}

func TestAggregate_SingleNamespace(t *testing.T) {
	raw := "NAME  CPU(cores)  MEMORY(bytes)\n" +
		"ns-a  100m  128Mi\n" +
		"ns-a  50m  64Mi\n"

	sum, err := NewAggregator(zaptest.NewLogger(t)).Aggregate(raw, domain.InNamespace("ns-a"))
	require.NoError(t, err)

	assert.Equal(t, []string{"default"}, sum.Namespaces.Names())
	got, _ := sum.Namespaces.Get("default")
	assert.Equal(t, domain.Usage{CPUMillicores: 150, MemoryMebibytes: 192}, got)
	assert.Equal(t, domain.Usage{CPUMillicores: 150, MemoryMebibytes: 192}, sum.Totals)
}

func TestAggregate_AllNamespaces(t *testing.T) {
	raw := "NAMESPACE  NAME  CPU(cores)  MEMORY(bytes)\n" +
		"kube-system  pod1  1  1Gi\n"

	sum, err := NewAggregator(nil).Aggregate(raw, domain.AllNamespaces())
	require.NoError(t, err)

	got, ok := sum.Namespaces.Get("kube-system")
	require.True(t, ok)
	assert.Equal(t, domain.Usage{CPUMillicores: 1000, MemoryMebibytes: 1024}, got)
	assert.Equal(t, 1, sum.Namespaces.Len())
}

func TestAggregate_SkipsShortAndBlankRows(t *testing.T) {
	raw := strings.Join([]string{
		"NAMESPACE     NAME        CPU(cores)   MEMORY(bytes)",
		"default       web-1       20m          30Mi",
		"",
		"orphan",
		"monitoring    prom-0      2            1Gi",
		"default       web-2       5m           2Mi",
	}, "\n")

	sum, err := NewAggregator(zaptest.NewLogger(t)).Aggregate(raw, domain.AllNamespaces())
	require.NoError(t, err)

	assert.Equal(t, []string{"default", "monitoring"}, sum.Namespaces.Names())
	def, _ := sum.Namespaces.Get("default")
	assert.Equal(t, domain.Usage{CPUMillicores: 25, MemoryMebibytes: 32}, def)
	_, ok := sum.Namespaces.Get("orphan")
	assert.False(t, ok)
	assert.Equal(t, domain.Usage{CPUMillicores: 2025, MemoryMebibytes: 1056}, sum.Totals)
}

func TestAggregate_SingleNamespaceIgnoresLeadingField(t *testing.T) {
	raw := "NAME  CPU(cores)  MEMORY(bytes)\n" +
		"api-1  10m  10Mi\n" +
		"worker-1  20m  1Gi\n"

	sum, err := NewAggregator(nil).Aggregate(raw, domain.InNamespace("prod"))
	require.NoError(t, err)
	assert.Equal(t, []string{"default"}, sum.Namespaces.Names())
	assert.Equal(t, domain.Usage{CPUMillicores: 30, MemoryMebibytes: 1034}, sum.Totals)
}

func TestAggregate_UnknownMemorySuffixCountsAsZero(t *testing.T) {
	raw := "NAME  CPU(cores)  MEMORY(bytes)\n" +
		"a  1m  256Ki\n"

	sum, err := NewAggregator(nil).Aggregate(raw, domain.InNamespace("x"))
	require.NoError(t, err)
	assert.Equal(t, domain.Usage{CPUMillicores: 1, MemoryMebibytes: 0}, sum.Totals)
}

func TestAggregate_NonNumericAbortsRun(t *testing.T) {
	raw := "NAMESPACE  NAME  CPU(cores)  MEMORY(bytes)\n" +
		"ns  ok  1m  1Mi\n" +
		"ns  bad  lots  1Mi\n"

	sum, err := NewAggregator(nil).Aggregate(raw, domain.AllNamespaces())
	require.Error(t, err)
	assert.Nil(t, sum)

	var ne *NumberError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, 3, ne.Line)
	assert.Equal(t, "cpu", ne.Column)
	assert.Equal(t, "lots", ne.Value)
	assert.True(t, errors.Is(err, ErrNonNumeric))
}

func TestAggregate_HeaderOnly(t *testing.T) {
	sum, err := NewAggregator(nil).Aggregate("NAME  CPU(cores)  MEMORY(bytes)\n", domain.InNamespace("x"))
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Namespaces.Len())
	assert.Equal(t, domain.Usage{}, sum.Totals)
}

func TestAggregate_TotalsEqualNamespaceSum(t *testing.T) {
	raw := strings.Join([]string{
		"NAMESPACE  NAME  CPU(cores)  MEMORY(bytes)",
		"a  p1  1  1Gi",
		"b  p2  250m  100Mi",
		"c  p3  3m  7Ki",
		"a  p4  17m  3Mi",
		"b  p5  2  2Gi",
	}, "\n")

	sum, err := NewAggregator(nil).Aggregate(raw, domain.AllNamespaces())
	require.NoError(t, err)
	assert.Equal(t, sum.Namespaces.Sum(), sum.Totals)
}
