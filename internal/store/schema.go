package store

// Schema is the complete annotation store schema, applied on Open.
const Schema = `
-- Processed notes
CREATE TABLE IF NOT EXISTS notes (
    id           TEXT PRIMARY KEY,
    title        TEXT NOT NULL DEFAULT '',
    filename     TEXT NOT NULL DEFAULT '',
    content_hash TEXT NOT NULL,
    text         TEXT NOT NULL,
    created_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notes_hash ON notes(content_hash);
CREATE INDEX IF NOT EXISTS idx_notes_created ON notes(created_at DESC);

-- Entities extracted from a note
CREATE TABLE IF NOT EXISTS entities (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    note_id      TEXT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
    text         TEXT NOT NULL,
    start        INTEGER NOT NULL,
    end          INTEGER NOT NULL,
    category     TEXT NOT NULL,
    literal      TEXT NOT NULL DEFAULT '',
    section      TEXT NOT NULL DEFAULT '',
    negated      INTEGER NOT NULL DEFAULT 0,
    possible     INTEGER NOT NULL DEFAULT 0,
    historical   INTEGER NOT NULL DEFAULT 0,
    hypothetical INTEGER NOT NULL DEFAULT 0,
    family       INTEGER NOT NULL DEFAULT 0,
    uncertain    INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_entities_note ON entities(note_id);
CREATE INDEX IF NOT EXISTS idx_entities_category ON entities(category);

-- Sections detected in a note
CREATE TABLE IF NOT EXISTS sections (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    note_id     TEXT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
    category    TEXT NOT NULL,
    title       TEXT NOT NULL DEFAULT '',
    title_start INTEGER NOT NULL,
    title_end   INTEGER NOT NULL,
    body_start  INTEGER NOT NULL,
    body_end    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sections_note ON sections(note_id);

-- FTS5 over entity text, kept in sync with triggers
CREATE VIRTUAL TABLE IF NOT EXISTS entities_fts USING fts5(
    text, content='entities', content_rowid='id',
    tokenize='unicode61 remove_diacritics 2'
);
CREATE TRIGGER IF NOT EXISTS entities_ai AFTER INSERT ON entities BEGIN
    INSERT INTO entities_fts(rowid, text) VALUES (new.id, new.text);
END;
CREATE TRIGGER IF NOT EXISTS entities_ad AFTER DELETE ON entities BEGIN
    INSERT INTO entities_fts(entities_fts, rowid, text) VALUES('delete', old.id, old.text);
END;
`
