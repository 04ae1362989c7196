// Package migrations contains the storefront schema migrations. Each file
// registers itself from init(); importing the package is enough to make
// them available to the runner.
package migrations
