package mysql

const upsertAirportSQL = `
INSERT INTO airports
  (code, name, lat, lon, timezone)
VALUES
  (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name       = VALUES(name),
  lat        = VALUES(lat),
  lon        = VALUES(lon),
  timezone   = VALUES(timezone),
  updated_at = CURRENT_TIMESTAMP
`

const getAirportSQL = `
SELECT code, name, lat, lon, timezone
FROM airports
WHERE code = ?
`

const airportCoordinateSQL = `
SELECT lat, lon
FROM airports
WHERE code = ? AND lat IS NOT NULL AND lon IS NOT NULL
`

const airportTimezoneSQL = `
SELECT timezone
FROM airports
WHERE code = ? AND timezone IS NOT NULL AND timezone <> ''
`

const airportNameSQL = `
SELECT name
FROM airports
WHERE code = ?
`
