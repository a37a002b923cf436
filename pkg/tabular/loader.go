package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// File-level loader errors. All are non-fatal: the file is reported,
// counted and skipped.
var (
	ErrBadFilename      = errors.New("filename does not match grammar")
	ErrMissingKeyColumn = errors.New("missing player_id column")
	ErrEmptyMetricSet   = errors.New("no metric columns")
)

const (
	SeasonRegular    = "regular"
	SeasonPostseason = "postseason"

	// Conference championships carry the CC token. They live in the game
	// feed as regular-season week 15, so that is the convention here.
	championshipWeek = 15
)

// keyColumn is the required external player key.
const keyColumn = "player_id"

// identityColumns are the non-metric string columns a tabular export may
// carry. They feed identity resolution and are excluded from the metric set.
var identityColumns = map[string]bool{
	"player":    true,
	"position":  true,
	"team_name": true,
}

// gameCountColumn is numeric but reserved: it normalizes volume metrics,
// it is not itself a metric.
const gameCountColumn = "player_game_count"

var (
	weekTokenPattern = regexp.MustCompile(`^(\d+)$`)
	postTokenPattern = regexp.MustCompile(`^([1-4])(?:st|nd|rd|th)PO$`)
	numberPattern    = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)
)

// FileInfo is the slot a tabular file describes, derived from its name.
type FileInfo struct {
	Family     Family
	Year       int
	Week       int    // zero for season files
	SeasonType string // empty for season files
	Seasonal   bool
}

// Record is one player row of a tabular file. Metrics holds only the
// values that parsed; an absent key is a null.
type Record struct {
	PlayerKey string
	Player    string
	Team      string
	Position  string
	GameCount float64
	HasGames  bool
	Metrics   map[string]float64
}

// File is one parsed tabular export.
type File struct {
	FileInfo
	Path    string
	Columns []string // metric column names, sorted
	Rows    []Record
}

// Stats counts the non-fatal skips of a load pass.
type Stats struct {
	Files       int
	Rows        int
	BadFilename int
	MissingKey  int
	Empty       int
	NullValues  int
}

// Loader reads per-family directories of CSV exports.
type Loader struct {
	dir string
	log *logrus.Logger
}

func NewLoader(dir string, log *logrus.Logger) *Loader {
	return &Loader{dir: dir, log: log}
}

// ParseFilename maps a base filename onto its slot:
//
//	{year}_{family}.csv            season file
//	{year}_{week}_{family}.csv     weekly file, week ∈ digits
//	{year}_CC_{family}.csv         conference championship (week 15 regular)
//	{year}_{n}{st..th}PO_{family}.csv  postseason week n
func ParseFilename(name string) (FileInfo, error) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	parts := strings.SplitN(base, "_", 3)
	if len(parts) < 2 {
		return FileInfo{}, fmt.Errorf("%w: %s", ErrBadFilename, name)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1900 {
		return FileInfo{}, fmt.Errorf("%w: %s: bad year %q", ErrBadFilename, name, parts[0])
	}

	// A two-part name is a season file; otherwise the middle token must be
	// a week token, or the token is part of the family name (season file
	// for a multi-word family).
	var token, familyToken string
	if len(parts) == 2 {
		familyToken = parts[1]
	} else {
		token = parts[1]
		familyToken = parts[2]
	}

	info := FileInfo{Year: year}
	switch {
	case token == "":
		info.Seasonal = true
	case weekTokenPattern.MatchString(token):
		info.Week, _ = strconv.Atoi(token)
		info.SeasonType = SeasonRegular
	case token == "CC":
		info.Week = championshipWeek
		info.SeasonType = SeasonRegular
	case postTokenPattern.MatchString(token):
		m := postTokenPattern.FindStringSubmatch(token)
		info.Week, _ = strconv.Atoi(m[1])
		info.SeasonType = SeasonPostseason
	default:
		// Not a week token: the whole tail is the family name and this is
		// a season file, e.g. 2024_passing_grades.csv.
		info.Seasonal = true
		familyToken = token + "_" + familyToken
	}

	fam, ok := ByName(familyToken)
	if !ok {
		return FileInfo{}, fmt.Errorf("%w: %s: unknown family %q", ErrBadFilename, name, familyToken)
	}
	info.Family = fam
	return info, nil
}

// LoadFamily parses every CSV under dir/<family> in lexicographic order.
// Files failing the grammar or missing the key column are skipped and
// counted, never silently dropped.
func (l *Loader) LoadFamily(fam Family) ([]*File, *Stats, error) {
	stats := &Stats{}
	root := filepath.Join(l.dir, fam.Name)

	entries, err := os.ReadDir(root)
	if errors.Is(err, os.ErrNotExist) {
		return nil, stats, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read dir %s: %w", root, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var files []*File
	for _, name := range names {
		f, err := l.loadFile(fam, filepath.Join(root, name), stats)
		if err != nil {
			switch {
			case errors.Is(err, ErrBadFilename):
				stats.BadFilename++
			case errors.Is(err, ErrMissingKeyColumn):
				stats.MissingKey++
			case errors.Is(err, ErrEmptyMetricSet):
				stats.Empty++
			default:
				return nil, nil, err
			}
			l.log.WithField("file", name).Warnf("skipping: %v", err)
			continue
		}
		stats.Files++
		stats.Rows += len(f.Rows)
		files = append(files, f)
	}
	return files, stats, nil
}

func (l *Loader) loadFile(fam Family, path string, stats *Stats) (*File, error) {
	info, err := ParseFilename(path)
	if err != nil {
		return nil, err
	}
	if info.Family.Name != fam.Name {
		return nil, fmt.Errorf("%w: %s: family %s in %s directory",
			ErrBadFilename, filepath.Base(path), info.Family.Name, fam.Name)
	}

	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()

	r := csv.NewReader(fh)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	keyIdx := -1
	for i, h := range header {
		if h == keyColumn {
			keyIdx = i
		}
	}
	if keyIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingKeyColumn, filepath.Base(path))
	}

	var metricCols []string
	for _, h := range header {
		if h == "" || h == keyColumn || h == gameCountColumn || identityColumns[h] {
			continue
		}
		metricCols = append(metricCols, h)
	}
	if len(metricCols) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyMetricSet, filepath.Base(path))
	}
	sort.Strings(metricCols)

	file := &File{FileInfo: info, Path: path, Columns: metricCols}

	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		rec := Record{Metrics: make(map[string]float64)}
		for i, raw := range fields {
			if i >= len(header) {
				break
			}
			col := header[i]
			val := strings.TrimSpace(raw)
			switch {
			case col == keyColumn:
				rec.PlayerKey = val
			case col == "player":
				rec.Player = val
			case col == "team_name":
				rec.Team = val
			case col == "position":
				rec.Position = val
			case col == gameCountColumn:
				if numberPattern.MatchString(val) {
					rec.GameCount, _ = strconv.ParseFloat(val, 64)
					rec.HasGames = true
				}
			case col == "":
				// unnamed trailing column, ignore
			default:
				if numberPattern.MatchString(val) {
					f, _ := strconv.ParseFloat(val, 64)
					rec.Metrics[col] = f
				} else {
					// Unparsable values coerce to null.
					stats.NullValues++
				}
			}
		}
		if rec.PlayerKey == "" {
			continue
		}
		file.Rows = append(file.Rows, rec)
	}
	return file, nil
}
