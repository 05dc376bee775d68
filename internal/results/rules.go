package results

// defaultRuleNames maps well-known rule identifiers to their descriptive
// names. The table only needs to cover the rules commonly seen in exports;
// unknown identifiers simply keep an empty RuleName.
var defaultRuleNames = map[string]string{
	"java:S106":  "Standard outputs should not be used directly to log anything",
	"java:S107":  "Methods should not have too many parameters",
	"java:S108":  "Nested blocks of code should not be left empty",
	"java:S125":  "Sections of code should not be commented out",
	"java:S1066": "Mergeable \"if\" statements should be combined",
	"java:S1118": "Utility classes should not have public constructors",
	"java:S1128": "Unnecessary imports should be removed",
	"java:S1135": "Track uses of \"TODO\" tags",
	"java:S1172": "Unused method parameters should be removed",
	"java:S1192": "String literals should not be duplicated",
	"java:S1481": "Unused local variables should be removed",
	"java:S1854": "Unused assignments should be removed",
	"java:S2095": "Resources should be closed",
	"java:S2119": "\"Random\" objects should be reused",
	"java:S2245": "Using pseudorandom number generators (PRNGs) is security-sensitive",
	"java:S3776": "Cognitive Complexity of methods should not be too high",
	"java:S4790": "Using weak hashing algorithms is security-sensitive",
	"java:S5852": "Using slow regular expressions is security-sensitive",

	"js:S1121": "Assignments should not be made from within sub-expressions",
	"js:S1481": "Unused local variables and functions should be removed",
	"js:S2681": "Multiline blocks should be enclosed in curly braces",
	"js:S3504": "Variables should be declared with \"let\" or \"const\"",
	"js:S3776": "Cognitive Complexity of functions should not be too high",

	"ts:S1128": "Unnecessary imports should be removed",
	"ts:S6749": "Redundant React fragments should be removed",

	"go:S1005": "Blank identifiers should not be assigned",
	"go:S1021": "Variable declarations should be merged",
	"go:S1192": "String literals should not be duplicated",
	"go:S3776": "Cognitive Complexity of functions should not be too high",

	"python:S1481": "Unused local variables should be removed",
	"python:S5445": "Insecure temporary file creation methods should not be used",
	"python:S5659": "JWT should be signed and verified with strong cipher algorithms",
}
