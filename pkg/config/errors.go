package config

import "errors"

var (
	ErrParsingConfig = errors.New("config.parse_env_failed")
	ErrReadingFile   = errors.New("config.read_file_failed")
	ErrParsingFile   = errors.New("config.parse_file_failed")
	ErrNilPointer    = errors.New("config.nil_pointer")
)
