package dialect

import "regexp"

type statementSignal struct {
	Pattern *regexp.Regexp
	Dialect string
	Score   int
	Reason  string
}

var statementSignals = []statementSignal{
	// IDMS
	{Pattern: regexp.MustCompile(`(?i)\bCOPY\s+IDMS\b`), Dialect: IDMSName, Score: 6, Reason: "IDMS statement `COPY IDMS`"},
	{Pattern: regexp.MustCompile(`(?i)\bBIND\s+RUN-UNIT\b`), Dialect: IDMSName, Score: 5, Reason: "IDMS statement `BIND RUN-UNIT`"},
	{Pattern: regexp.MustCompile(`(?i)\bIDMS-CONTROL\b`), Dialect: IDMSName, Score: 4, Reason: "IDMS-CONTROL section"},
	{Pattern: regexp.MustCompile(`(?i)\bOBTAIN\s+CALC\b`), Dialect: IDMSName, Score: 3, Reason: "IDMS statement `OBTAIN CALC`"},

	// DaCo
	{Pattern: regexp.MustCompile(`(?i)\bCOPY\s+MAID\b`), Dialect: DaCoName, Score: 6, Reason: "DaCo statement `COPY MAID`"},
}
