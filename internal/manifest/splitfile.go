package manifest

import (
	"errors"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// ErrNoSplitfile is returned when the requested splitfile does not exist.
var ErrNoSplitfile = errors.New("splitfile not found")

// Splitfile is a TOML description of a split request. It lets a repeatable
// plan invocation live next to the code it splits instead of in shell
// history. When Changes is non-empty the splitfile is a change-list source;
// otherwise Split.Source names a directory to scan.
type Splitfile struct {
	Split   SplitSpec     `toml:"split"`
	Changes []ChangeEntry `toml:"changes"`
}

// SplitSpec holds the planning parameters of a splitfile.
type SplitSpec struct {
	Source        string   `toml:"source"`
	Strategy      string   `toml:"strategy"`
	TargetPRCount int      `toml:"target_pr_count"`
	BaseBranch    string   `toml:"base_branch"`
	BranchPrefix  string   `toml:"branch_prefix"`
	TitlePrefix   string   `toml:"title_prefix"`
	Include       []string `toml:"include"`
	Exclude       []string `toml:"exclude"`
}

// LoadSplitfile reads and parses a splitfile from path.
func LoadSplitfile(path string) (*Splitfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoSplitfile, path)
		}
		return nil, fmt.Errorf("reading splitfile: %w", err)
	}

	var sf Splitfile
	if err := toml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &sf, nil
}

// Records builds manifest records from the splitfile: the inline change list
// when present, otherwise a directory scan of Split.Source.
func (sf *Splitfile) Records(warn func(string)) ([]FileRecord, error) {
	if len(sf.Changes) > 0 {
		return FromChanges(sf.Changes)
	}
	if sf.Split.Source == "" {
		return nil, fmt.Errorf("%w: splitfile has neither changes nor a source directory", ErrInvalidSource)
	}
	return FromDir(sf.Split.Source, DirOptions{
		Include: sf.Split.Include,
		Exclude: sf.Split.Exclude,
		Warn:    warn,
	})
}
