package source

type (
	// FileID identifies a file inside one FileSet; zero is never assigned.
	FileID uint32
	// FileFlags records how the content was normalized on load.
	FileFlags uint8
)

const (
	FileVirtual        FileFlags = 1 << iota // из памяти: тесты, stdin
	FileHadBOM                               // BOM срезан при загрузке
	FileNormalizedCRLF                       // \r\n заменены на \n
	FileExtended                             // текст дописан после загрузки (grow)
)

// File is one loaded source text. LineIdx holds the offset of every '\n'.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based line and column; columns count bytes.
type LineCol struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}
