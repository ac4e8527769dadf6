package modex

import (
	"bytes"
	"crypto/sha1"
	"database/sql"
	"encoding/xml"
	"fmt"
	"image"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/modex/photo"
	"github.com/bodgit/modex/scanline"
	"github.com/bodgit/modex/sprite"
	"github.com/disintegration/imaging"
	_ "github.com/mattn/go-sqlite3"
)

const (
	photoExt  = ".photo"
	spriteExt = ".obj"
)

// RoomDB stores photos, object images and the rooms built from them.
type RoomDB struct {
	db *sql.DB
}

// NewRoomDB opens or creates the database in file.
func NewRoomDB(file string) (*RoomDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS photo (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, data BLOB NOT NULL)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS sprite (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, data BLOB NOT NULL)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS room (id INTEGER PRIMARY KEY NOT NULL, name STRING NOT NULL UNIQUE, photo_id INTEGER NOT NULL, FOREIGN KEY(photo_id) REFERENCES photo(id))"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS object (room_id INTEGER NOT NULL, seq INTEGER NOT NULL, x INTEGER NOT NULL, y INTEGER NOT NULL, sprite_id INTEGER NOT NULL, PRIMARY KEY(room_id, seq), FOREIGN KEY(room_id) REFERENCES room(id), FOREIGN KEY(sprite_id) REFERENCES sprite(id))"); err != nil {
		return nil, err
	}

	return &RoomDB{
		db: db,
	}, nil
}

type xmlWorld struct {
	XMLName xml.Name  `xml:"World"`
	Rooms   []xmlRoom `xml:"Room"`
}

type xmlRoom struct {
	XMLName xml.Name    `xml:"Room"`
	Name    string      `xml:"Name"`
	Photo   string      `xml:"Photo"`
	Objects []xmlObject `xml:"Object"`
}

type xmlObject struct {
	XMLName xml.Name `xml:"Object"`
	X       int      `xml:"X"`
	Y       int      `xml:"Y"`
	Image   string   `xml:"Image"`
}

func relativePath(base, path string) string {
	return filepath.Join(filepath.Dir(base), filepath.Clean(strings.ReplaceAll(path, "\\", string(os.PathSeparator))))
}

// ImportXML replaces the contents of the database with the rooms described
// in file. Photo and image paths are relative to file and may either be in
// the native formats or any image format that can be decoded.
func (db *RoomDB) ImportXML(file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := ioutil.ReadAll(f)
	if err != nil {
		return err
	}

	var world xmlWorld
	if err := xml.Unmarshal(b, &world); err != nil {
		return err
	}

	tx, err := db.db.Begin()
	if err != nil {
		return err
	}

	if err := importWorld(tx, file, &world); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// importWorld replaces every row using tx.
func importWorld(tx *sql.Tx, file string, world *xmlWorld) error {
	for _, table := range []string{"object", "room", "sprite", "photo"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}

	for _, r := range world.Rooms {
		if r.Photo == "" {
			return fmt.Errorf("room %q has no photo", r.Name)
		}

		p, err := addPhoto(tx, relativePath(file, r.Photo))
		if err != nil {
			return err
		}

		room, err := addRoom(tx, r.Name, p)
		if err != nil {
			return err
		}

		for i, o := range r.Objects {
			s, err := addSprite(tx, relativePath(file, o.Image))
			if err != nil {
				return err
			}
			if err := addObject(tx, room, i, o.X, o.Y, s); err != nil {
				return err
			}
		}
	}

	return nil
}

// Close closes the database.
func (db *RoomDB) Close() error {
	return db.db.Close()
}

// readArt reads file, converting it to the native format with encode unless
// it already has the native extension, and returns the result along with the
// SHA1 of the original file.
func readArt(file, ext string, maxWidth, maxHeight int, filter imaging.ResampleFilter, encode func(io.Writer, image.Image) error) ([]byte, string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	h := sha1.New()
	r := io.TeeReader(f, h)

	var b []byte
	if strings.EqualFold(filepath.Ext(file), ext) {
		if b, err = ioutil.ReadAll(r); err != nil {
			return nil, "", err
		}
	} else {
		m, err := imaging.Decode(r)
		if err != nil {
			return nil, "", err
		}
		if m.Bounds().Dx() > maxWidth || m.Bounds().Dy() > maxHeight {
			m = imaging.Fit(m, maxWidth, maxHeight, filter)
		}
		buf := new(bytes.Buffer)
		if err := encode(buf, m); err != nil {
			return nil, "", err
		}
		b = buf.Bytes()
	}

	return b, fmt.Sprintf("%X", h.Sum(nil)), nil
}

func addPhoto(tx *sql.Tx, file string) (int64, error) {
	b, sha, err := readArt(file, photoExt, photo.MaxWidth, photo.MaxHeight, imaging.Lanczos, photo.Encode)
	if err != nil {
		return 0, err
	}

	var id int64
	switch err := tx.QueryRow("SELECT id FROM photo WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		// Make sure it's complete before storing it
		if _, err := photo.DecodeRGB565(bytes.NewReader(b)); err != nil {
			return 0, fmt.Errorf("%s: %w", file, err)
		}
		result, err := tx.Exec("INSERT INTO photo (sha1, data) VALUES (?, ?)", sha, b)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

func addSprite(tx *sql.Tx, file string) (int64, error) {
	b, sha, err := readArt(file, spriteExt, sprite.MaxWidth, sprite.MaxHeight, imaging.NearestNeighbor, sprite.Encode)
	if err != nil {
		return 0, err
	}

	var id int64
	switch err := tx.QueryRow("SELECT id FROM sprite WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		if _, err := sprite.Decode(bytes.NewReader(b)); err != nil {
			return 0, fmt.Errorf("%s: %w", file, err)
		}
		result, err := tx.Exec("INSERT INTO sprite (sha1, data) VALUES (?, ?)", sha, b)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

func addRoom(tx *sql.Tx, name string, photoID int64) (int64, error) {
	result, err := tx.Exec("INSERT INTO room (name, photo_id) VALUES (?, ?)", name, photoID)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func addObject(tx *sql.Tx, roomID int64, seq, x, y int, spriteID int64) error {
	if _, err := tx.Exec("INSERT INTO object (room_id, seq, x, y, sprite_id) VALUES (?, ?, ?, ?, ?)", roomID, seq, x, y, spriteID); err != nil {
		return err
	}
	return nil
}

// Rooms returns the names of every room in the database.
func (db *RoomDB) Rooms() ([]string, error) {
	rows, err := db.db.Query("SELECT name FROM room ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// FindRoom loads the named room, quantizing its photo. It returns nil if
// there is no such room.
func (db *RoomDB) FindRoom(name string) (*Room, error) {
	var data []byte
	switch err := db.db.QueryRow("SELECT p.data FROM room AS r JOIN photo AS p ON r.photo_id = p.id WHERE r.name = ?", name).Scan(&data); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
	default:
		return nil, err
	}

	p, err := photo.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	rows, err := db.db.Query("SELECT o.x, o.y, o.sprite_id, s.data FROM room AS r JOIN object AS o ON o.room_id = r.id JOIN sprite AS s ON o.sprite_id = s.id WHERE r.name = ? ORDER BY o.seq", name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Images shared between objects are only decoded once
	images := make(map[int64]*sprite.Image)

	var objects []scanline.Object
	for rows.Next() {
		var x, y int
		var id int64
		if err := rows.Scan(&x, &y, &id, &data); err != nil {
			return nil, err
		}

		m, ok := images[id]
		if !ok {
			if m, err = sprite.Decode(bytes.NewReader(data)); err != nil {
				return nil, err
			}
			images[id] = m
		}

		objects = append(objects, scanline.Object{X: x, Y: y, Image: m})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return NewRoom(name, p, objects...), nil
}
