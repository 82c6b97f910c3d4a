package envutil_test

import (
	"strconv"
	"testing"

	"github.com/distr-sh/recoverd/internal/envutil"
	. "github.com/onsi/gomega"
)

func TestGetEnvParsedOrDefault(t *testing.T) {
	g := NewWithT(t)

	t.Setenv("RECOVERD_TEST_INT", "42")
	g.Expect(envutil.GetEnvParsedOrDefault("RECOVERD_TEST_INT", strconv.Atoi, 1)).To(Equal(42))
	g.Expect(envutil.GetEnvParsedOrDefault("RECOVERD_TEST_UNSET", strconv.Atoi, 1)).To(Equal(1))
}

func TestGetEnvParsedOrNil_Empty(t *testing.T) {
	g := NewWithT(t)

	t.Setenv("RECOVERD_TEST_EMPTY", "")
	g.Expect(envutil.GetEnvParsedOrNil("RECOVERD_TEST_EMPTY", strconv.Atoi)).To(BeNil())
}

func TestRequireEnv_Panics(t *testing.T) {
	g := NewWithT(t)

	g.Expect(func() { envutil.RequireEnv("RECOVERD_TEST_UNSET") }).To(Panic())
	g.Expect(func() { envutil.RequireEnvParsed("RECOVERD_TEST_UNSET", strconv.Atoi) }).To(Panic())

	t.Setenv("RECOVERD_TEST_BAD", "nope")
	g.Expect(func() { envutil.GetEnvParsedOrNil("RECOVERD_TEST_BAD", strconv.Atoi) }).To(Panic())
}
