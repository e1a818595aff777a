package config

const SourceFileExt = ".mar"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".mar", ".marmoset"}

// Built-in function names
const (
	LenFuncName    = "len"
	PrintFuncName  = "print"
	PushFuncName   = "push"
	PopFuncName    = "pop"
	IsNullFuncName = "is_null"
	SleepFuncName  = "sleep"
)
