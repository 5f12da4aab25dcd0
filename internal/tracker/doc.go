// Package tracker is the operation boundary of wiretrack.
//
// A Tracker owns the record store together with its collaborators: the JSON
// data file, the optional operation journal and the optional spreadsheet.
// Every user-facing operation goes through it.
//
// Mutations are staged on a clone of the store. The clone becomes the live
// store only after the data file has been written, so a failed write leaves
// memory and disk in agreement. Collaborator failures come back as
// record.ErrCodeExternalIO errors; nothing is retried.
//
// Journal writes happen after the commit. A journal failure is logged as a
// warning and does not undo the committed operation.
package tracker
