package recovery

import (
	"errors"
	"testing"

	"github.com/distr-sh/recoverd/internal/apierrors"
	. "github.com/onsi/gomega"
)

func TestRejectedError(t *testing.T) {
	g := NewWithT(t)
	cause := errors.New("connection refused")

	err := reject(ReasonDependencyFailure, cause)
	g.Expect(err.Kind).To(Equal(KindDependency))
	g.Expect(err).To(MatchError(apierrors.ErrDependency))
	g.Expect(err).To(MatchError(cause))
	g.Expect(err.Error()).To(Equal("dependency failure: connection refused"))

	err = reject(ReasonKeyOwnership, nil)
	g.Expect(err).To(MatchError(apierrors.ErrOwnership))
	g.Expect(err.Error()).To(Equal("key does not belong to given user"))
	g.Expect(err.Message()).To(Equal("The key provided doesn't belong to given user"))
}

func TestEveryReasonHasKindAndMessage(t *testing.T) {
	g := NewWithT(t)
	g.Expect(reasonMessages).To(HaveLen(len(reasonKinds)))
	for reason := range reasonKinds {
		g.Expect(reasonMessages).To(HaveKey(reason))
	}
}

func TestStateTerminal(t *testing.T) {
	g := NewWithT(t)
	g.Expect(StateKeyBound.Terminal()).To(BeTrue())
	g.Expect(StateRejected.Terminal()).To(BeTrue())
	g.Expect(StateOwnershipVerified.Terminal()).To(BeFalse())
	g.Expect(StateRequested.String()).To(Equal("Requested"))
}
