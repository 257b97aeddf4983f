package visitor

const dateFormat = "2006-01-02"

type RegisterVisitorRequest struct {
	Name        string `json:"name" binding:"required"`
	NationalID  string `json:"national_id" binding:"required"`
	Institution string `json:"institution" binding:"required"`
	Date        string `json:"date"` // YYYY-MM-DD, defaults to today
}
