package picocover

import (
	"database/sql"
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/bodgit/picocover/header"
	_ "github.com/mattn/go-sqlite3" // register driver
)

// CoverDB caches downloaded cover art and maps game codes to titles. It is
// safe for concurrent use.
type CoverDB struct {
	db *sql.DB
}

// NewCoverDB opens, creating if necessary, the database stored in file.
func NewCoverDB(file string) (*CoverDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	// Serialise writers rather than fight over the lock
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS cover (platform TEXT NOT NULL, code TEXT NOT NULL, url TEXT NOT NULL, image BLOB NOT NULL, PRIMARY KEY (platform, code))"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS title (platform TEXT NOT NULL, code TEXT NOT NULL, name TEXT NOT NULL, PRIMARY KEY (platform, code))"); err != nil {
		db.Close()
		return nil, err
	}

	return &CoverDB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *CoverDB) Close() error {
	return db.db.Close()
}

type xmlDatafile struct {
	XMLName xml.Name  `xml:"datafile"`
	Header  xmlHeader `xml:"header"`
	Games   []xmlGame `xml:"game"`
}

type xmlHeader struct {
	Name    string `xml:"name"`
	Version string `xml:"version"`
}

type xmlGame struct {
	Name string   `xml:"name,attr"`
	ROMs []xmlROM `xml:"rom"`
}

type xmlROM struct {
	Name   string `xml:"name,attr"`
	Serial string `xml:"serial,attr"`
}

// ImportDAT replaces the titles known for platform p with those found in a
// No-Intro XML DAT file, using the serial attribute of each ROM as the game
// code. It returns the number of titles imported.
func (db *CoverDB) ImportDAT(p Platform, file string) (int, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var dat xmlDatafile
	if err := xml.NewDecoder(f).Decode(&dat); err != nil {
		return 0, err
	}

	tx, err := db.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err = tx.Exec("DELETE FROM title WHERE platform = ?", p.Name); err != nil {
		return 0, err
	}

	var n int
	for _, g := range dat.Games {
		for _, r := range g.ROMs {
			// Some entries list more than one serial
			for _, serial := range strings.Split(r.Serial, ",") {
				id, err := header.Parse(strings.TrimSpace(serial))
				if err != nil {
					continue
				}
				if _, err := tx.Exec("INSERT OR REPLACE INTO title (platform, code, name) VALUES (?, ?, ?)", p.Name, id.String(), g.Name); err != nil {
					return 0, err
				}
				n++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return n, nil
}

// FindTitle returns the title for the game code id, or an empty string if it
// is not known.
func (db *CoverDB) FindTitle(platform string, id header.Identifier) (string, error) {
	var name string
	switch err := db.db.QueryRow("SELECT name FROM title WHERE platform = ? AND code = ?", platform, id.String()).Scan(&name); err {
	case sql.ErrNoRows:
		return "", nil
	case nil:
		return name, nil
	default:
		return "", err
	}
}

// AddCover stores the raw image fetched from url for the game code id,
// replacing any existing entry.
func (db *CoverDB) AddCover(platform string, id header.Identifier, url string, image []byte) error {
	if _, err := db.db.Exec("INSERT OR REPLACE INTO cover (platform, code, url, image) VALUES (?, ?, ?, ?)", platform, id.String(), url, image); err != nil {
		return err
	}
	return nil
}

// FindCover returns the cached raw image for the game code id, or nil if there
// isn't one.
func (db *CoverDB) FindCover(platform string, id header.Identifier) ([]byte, error) {
	var image []byte
	switch err := db.db.QueryRow("SELECT image FROM cover WHERE platform = ? AND code = ?", platform, id.String()).Scan(&image); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return image, nil
	default:
		return nil, err
	}
}
