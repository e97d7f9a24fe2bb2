package cmd

import "github.com/ardnew/arith/lang"

// Sentinel errors of the commands. They share [lang.Error] with the
// language, so errors derived with Wrap or With still match by errors.Is and
// log their attributes.
var (
	ErrReadSource    = lang.NewError("read source")
	ErrInputConflict = lang.NewError("inline expression and source files are exclusive")
	ErrPrelude       = lang.NewError("invalid prelude")
	ErrEvaluate      = lang.NewError("evaluation failed")
	ErrFormat        = lang.NewError("format failed")
	ErrYAMLMarshal   = lang.NewError("marshal YAML")
	ErrWriteConfig   = lang.NewError("write configuration file")
	ErrFileExists    = lang.NewError("file exists (use --force to overwrite)")
	ErrServe         = lang.NewError("serve failed")
)
