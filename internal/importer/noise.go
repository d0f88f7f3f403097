package importer

import "regexp"

// noisePatterns match header lines of the statement export that must never be
// taken as a transaction description.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)cargo\s+realizado\s+por`),
	regexp.MustCompile(`(?i)movimientos`),
	regexp.MustCompile(`(?i)fecha\s+y\s+hora`),
	regexp.MustCompile(`(?i)^monto$`),
}

// IsNoiseLine reports whether line is a known non-transactional header.
func IsNoiseLine(line string) bool {
	for _, re := range noisePatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
