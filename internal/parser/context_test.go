package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ---- yield / generator context ----

func TestYieldInsideGeneratorIsAllowed(t *testing.T) {
	_, log := parseES6(t, "function* g() { yield 1; }")
	assert.False(t, log.HasErrors())
}

func TestYieldOutsideGeneratorIsAnError(t *testing.T) {
	_, log := parseES6(t, "function f() { yield 1; }")
	assert.True(t, log.HasErrors())
}

func TestYieldAtTopLevelIsAnError(t *testing.T) {
	_, log := parseES6(t, "yield 1;")
	assert.True(t, log.HasErrors())
}

func TestYieldInsideArrowNestedInGeneratorIsStillAnError(t *testing.T) {
	// Arrow functions can never be generators themselves, so "yield" in an
	// arrow body is rejected even when the enclosing function is one.
	_, log := parseES6(t, "function* g() { var f = () => { yield 1; }; }")
	assert.True(t, log.HasErrors())
}

// ---- return / break / continue context ----

func TestReturnOutsideFunctionIsAnError(t *testing.T) {
	_, log := parseES6(t, "return 1;")
	assert.True(t, log.HasErrors())
}

func TestReturnInsideFunctionIsAllowed(t *testing.T) {
	_, log := parseES6(t, "function f() { return 1; }")
	assert.False(t, log.HasErrors())
}

func TestReturnInsideArrowBodyIsAllowed(t *testing.T) {
	_, log := parseES6(t, "var f = () => { return 1; };")
	assert.False(t, log.HasErrors())
}

func TestBreakOutsideLoopOrSwitchIsAnError(t *testing.T) {
	_, log := parseES6(t, "break;")
	assert.True(t, log.HasErrors())
}

func TestContinueOutsideLoopIsAnError(t *testing.T) {
	_, log := parseES6(t, "continue;")
	assert.True(t, log.HasErrors())
}

func TestContinueInsideSwitchWithNoEnclosingLoopIsAnError(t *testing.T) {
	_, log := parseES6(t, "switch (x) { case 1: continue; }")
	assert.True(t, log.HasErrors())
}

func TestBreakInsideWhileIsAllowed(t *testing.T) {
	_, log := parseES6(t, "while (x) { break; }")
	assert.False(t, log.HasErrors())
}

func TestContinueInsideForIsAllowed(t *testing.T) {
	_, log := parseES6(t, "for (;;) { continue; }")
	assert.False(t, log.HasErrors())
}

// ---- const without initializer ----

func TestConstWithoutInitializerIsAnError(t *testing.T) {
	_, log := parseES6(t, "const x;")
	assert.True(t, log.HasErrors())
}

func TestConstWithInitializerIsAllowed(t *testing.T) {
	_, log := parseES6(t, "const x = 1;")
	assert.False(t, log.HasErrors())
}

func TestLetWithoutInitializerIsAllowed(t *testing.T) {
	_, log := parseES6(t, "let x;")
	assert.False(t, log.HasErrors())
}
