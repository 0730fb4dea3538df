package linter

import (
	"strings"
	"testing"

	"github.com/lhaig/sol2clarity/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseAndLint(t *testing.T, source string) []string {
	t.Helper()
	contracts, err := parser.ParseAll(source)
	require.NoError(t, err)
	require.Len(t, contracts, 1)

	diag := Lint(contracts[0])
	assert.False(t, diag.HasErrors(), "linter must only warn")

	var warnings []string
	for _, d := range diag.All() {
		warnings = append(warnings, d.Message)
	}
	return warnings
}

func containsWarning(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

func TestCleanContractHasNoWarnings(t *testing.T) {
	warnings := parseAndLint(t, `
contract Token {
    uint256 total;
    mapping(address => uint256) balances;
    event Minted(address to, uint256 amount);
    function mint(address to, uint256 amount) public {
        balances[to] = amount;
        total = total + amount;
        emit Minted(msg.sender, amount);
        emit Minted(to, amount);
    }
}`)
	assert.Empty(t, warnings)
}

func TestEmptyFunctionBody(t *testing.T) {
	warnings := parseAndLint(t, `contract T { function noop() public {} }`)
	assert.True(t, containsWarning(warnings, "function 'noop' has an empty body"), "got %v", warnings)
}

func TestNestedMappingWarnings(t *testing.T) {
	two := parseAndLint(t, `contract T { mapping(address => mapping(uint256 => bool)) approvals; }`)
	assert.True(t, containsWarning(two, "nested mapping 'approvals' is flattened to a key labeled owner/token-id"), "got %v", two)
	assert.False(t, containsWarning(two, "only the outer and innermost keys"))

	three := parseAndLint(t, `contract T { mapping(address => mapping(uint256 => mapping(address => bool))) deep; }`)
	assert.True(t, containsWarning(three, "mapping 'deep' nests 3 levels"), "got %v", three)
}

func TestMemberAccessWarnings(t *testing.T) {
	warnings := parseAndLint(t, `
contract T {
    uint256 stamp;
    function f() public {
        stamp = block.timestamp;
        stamp = msg.sender;
        stamp = a.b.c;
    }
}`)
	assert.True(t, containsWarning(warnings, "member access 'block.timestamp' lowers to the unbound name 'block-timestamp'"), "got %v", warnings)
	assert.True(t, containsWarning(warnings, "member access 'a.b.c' lowers to the unbound name 'a-b-c'"), "got %v", warnings)
	assert.False(t, containsWarning(warnings, "'msg.sender'"))
	assert.False(t, containsWarning(warnings, "'a.b'"), "inner chain links are not reported")
}

func TestMapNameCasing(t *testing.T) {
	warnings := parseAndLint(t, `
contract T {
    mapping(address => bool) tokenOwners;
    mapping(address => bool) TokenOwners;
}`)
	assert.True(t, containsWarning(warnings, "map 'tokenOwners' is defined as 'token-owners'"), "got %v", warnings)
	assert.True(t, containsWarning(warnings, "maps 'tokenOwners' and 'TokenOwners' both render as 'token-owners'"), "got %v", warnings)
}

func TestUnusedParameter(t *testing.T) {
	warnings := parseAndLint(t, `
contract T {
    uint256 x;
    function set(uint256 value, uint256 unused) public {
        x = value;
    }
}`)
	assert.True(t, containsWarning(warnings, "parameter 'unused' in 'set' is never used"), "got %v", warnings)
	assert.False(t, containsWarning(warnings, "parameter 'value'"))
}

func TestUndeclaredTargets(t *testing.T) {
	warnings := parseAndLint(t, `
contract T {
    function f(address a) public {
        total = 1;
        ledger[a] = 2;
        emit Missing(a);
    }
}`)
	assert.True(t, containsWarning(warnings, "assignment to 'total' in 'f' is not a state variable"), "got %v", warnings)
	assert.True(t, containsWarning(warnings, "write to undeclared map 'ledger'"), "got %v", warnings)
	assert.True(t, containsWarning(warnings, "emit of undeclared event 'Missing'"), "got %v", warnings)
}

func TestConstructorParamsAreLinted(t *testing.T) {
	warnings := parseAndLint(t, `contract T { uint256 x; constructor(uint256 seed) { x = 1; } }`)
	assert.True(t, containsWarning(warnings, "parameter 'seed' in 'constructor' is never used"), "got %v", warnings)
}
