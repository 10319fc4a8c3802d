package database

// Repository groups the row repositories over one DB.
type Repository struct {
	Boards      *BoardRepo
	Lists       *CardListRepo
	Cards       *CardRepo
	Permissions *PermissionRepo
	Attachments *AttachmentRepo
}

// NewRepository creates a new Repository instance wrapping the given database.
func NewRepository(db *DB) *Repository {
	return &Repository{
		Boards:      &BoardRepo{db: db},
		Lists:       &CardListRepo{db: db},
		Cards:       &CardRepo{db: db},
		Permissions: &PermissionRepo{db: db},
		Attachments: &AttachmentRepo{db: db},
	}
}
