package entities

import "regexp"

var scriptRepositoryPattern = regexp.MustCompile(`^script-`)

// IsEligible returns true if the repository name follows the script naming
// convention ("script-<name>"). Only those repositories are migrated.
func IsEligible(repositoryName string) bool {
	return scriptRepositoryPattern.MatchString(repositoryName)
}
