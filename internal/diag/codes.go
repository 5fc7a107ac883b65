package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Копибуки
	CpyInfo                Code = 1000
	CopybookNameTooLong    Code = 1001
	CopybookNameHyphen     Code = 1002
	CopybookNameUnderscore Code = 1003
	CopybookMissing        Code = 1004
	CopybookRecursive      Code = 1005
	CopybookReadError      Code = 1006

	// Диалекты
	DiaInfo            Code = 2000
	DialectOrderCycle  Code = 2001
	DialectScriptError Code = 2002
	DialectUnknown     Code = 2003
	DialectSyntax      Code = 2004

	// Маппинг
	MapInfo                Code = 3000
	MapLocationUnavailable Code = 3001

	// I/O
	IOLoadFileError Code = 4000

	// Проект
	ProjInfo          Code = 5000
	ProjInvalidConfig Code = 5001

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:            "Unknown error",
		CpyInfo:                "Copybook information",
		CopybookNameTooLong:    "Copybook name is too long",
		CopybookNameHyphen:     "Copybook name must not start or end with a hyphen",
		CopybookNameUnderscore: "Copybook name must not contain an underscore",
		CopybookMissing:        "Copybook not found",
		CopybookRecursive:      "Recursive copybook declaration",
		CopybookReadError:      "Copybook cannot be read",
		DiaInfo:                "Dialect information",
		DialectOrderCycle:      "Dialect run-before constraints form a cycle",
		DialectScriptError:     "Dialect script failed",
		DialectUnknown:         "Unknown dialect",
		DialectSyntax:          "Dialect statement error",
		MapInfo:                "Mapping information",
		MapLocationUnavailable: "Location unavailable",
		IOLoadFileError:        "I/O load file error",
		ProjInfo:               "Project information",
		ProjInvalidConfig:      "Invalid project configuration",
		ObsInfo:                "Observability information",
		ObsTimings:             "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("CPY%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("DIA%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("MAP%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
