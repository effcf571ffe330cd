package types

// UnownedGroup is the synthetic owner group for changes whose path matches no
// ownership rule. It only appears in contributor reports.
const UnownedGroup = "unowned"

// DefaultTopN is the length of every ranked contributor list.
const DefaultTopN = 10

// DefaultOwnershipFiles lists the well-known CODEOWNERS locations in lookup
// priority order.
var DefaultOwnershipFiles = []string{
	".github/CODEOWNERS",
	"CODEOWNERS",
	"docs/CODEOWNERS",
}
