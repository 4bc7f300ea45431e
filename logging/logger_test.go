package logging

import (
	"strings"
	"testing"

	"go.viam.com/test"
)

func TestSubloggerInheritsLevelAndQualifiesName(t *testing.T) {
	parent := NewTestLogger(t)
	parent.SetLevel(WARN)

	child := parent.Sublogger("child").(*impl)
	test.That(t, child.name, test.ShouldEqual, "child")
	test.That(t, child.GetLevel(), test.ShouldEqual, WARN)

	grandchild := child.Sublogger("grandchild").(*impl)
	test.That(t, grandchild.name, test.ShouldEqual, "child.grandchild")
}

func TestLevelFilteringDropsBelowThreshold(t *testing.T) {
	logger, observed := NewObservedTestLogger(t)
	logger.SetLevel(WARN)

	logger.Debug("should not appear")
	logger.Info("should not appear either")
	logger.Warn("this one should appear")

	lines := observed.Lines()
	test.That(t, len(lines), test.ShouldEqual, 1)
	test.That(t, strings.Contains(lines[0], "this one should appear"), test.ShouldBeTrue)
}

func TestLevelFromStringRoundTrips(t *testing.T) {
	for _, lvl := range []Level{DEBUG, INFO, WARN, ERROR} {
		parsed, err := LevelFromString(lvl.String())
		test.That(t, err, test.ShouldBeNil)
		test.That(t, parsed, test.ShouldEqual, lvl)
	}

	_, err := LevelFromString("not-a-level")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestErrorwAttachesErrorField(t *testing.T) {
	logger, observed := NewObservedTestLogger(t)

	logger.Errorw("failed to converge", errFixture, "iteration", 3)

	lines := observed.Lines()
	test.That(t, len(lines), test.ShouldEqual, 1)
	test.That(t, strings.Contains(lines[0], "failed to converge"), test.ShouldBeTrue)
}

var errFixture = errFixtureType{}

type errFixtureType struct{}

func (errFixtureType) Error() string { return "fixture error" }
