package runner

// Robot Framework command line
const (
	// DefaultRobotBinary is the runner executable looked up on PATH
	DefaultRobotBinary = "robot"

	OutputDirFlag = "--outputdir"
	OutputFlag    = "--output"
	LogFlag       = "--log"
	ReportFlag    = "--report"
	VariableFlag  = "--variable"
	IncludeFlag   = "--include"
	ExcludeFlag   = "--exclude"

	// Variables always forwarded to the suites
	BrowserVariable  = "BROWSER"
	HeadlessVariable = "HEADLESS"
	BaseURLVariable  = "BASE_URL"

	// DefaultBaseURL is the dev server of the web application under test
	DefaultBaseURL = "http://localhost:5173"
)
