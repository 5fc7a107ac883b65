package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

// programSeeds cover fixed and free layouts, nested and recursive COPY,
// dialect statements and floating comments.
var programSeeds = []string{
	"",
	"\n\n",
	"       IDENTIFICATION DIVISION.\n       PROGRAM-ID. TEST1.\n",
	"       DATA DIVISION.\n       WORKING-STORAGE SECTION.\n       COPY BOOK1.\n",
	"       COPY BOOK1. COPY BOOK2.\n",
	"       COPY\n           BOOK2\n           OF LIB.\n",
	"       COPY 'BOOK1' SUPPRESS.\n",
	"       COPY REC1.\n",
	"       COPY IDMS SUBSCHEMA-NAMES.\n       COPY MAID BOOK1.\n",
	"000100* COMMENT LINE                                                    ABCDEFGH\n",
	"       MOVE 1 TO X. *> floating comment COPY NOPE.\n",
	"       DISPLAY \"*> not a comment\".\n",
	"       COPY .\n       COPY -BAD-.\n       COPY BAD_NAME.\n",
	"\tCOPY BOOK1.\r\néè COPY BOOK2.\r\n",
}

// copybooks shared by the harnesses; REC1 and REC2 include each other.
var copybooks = map[string]string{
	"BOOK1":           "       01 BOOK1-FIELD PIC X(10).\n       COPY BOOK2.",
	"BOOK2":           "       01 BOOK2-FIELD PIC 9(4).",
	"REC1":            "       COPY REC2.",
	"REC2":            "       COPY REC1.",
	"SUBSCHEMA-NAMES": "       01 SUBSCHEMA-NAME PIC X(8).",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range programSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем программы и копибуки
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".cbl", ".cob", ".cpy":
		default:
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) string {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return string(input)
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input string, maxLen int) string {
	if len(input) <= maxLen {
		return input
	}
	return input[:maxLen] + "..."
}
