package enum

// JobType identifies a unit of asynchronous order work
type JobType string

const (
	JobTypeGenerateDocuments JobType = "GenerateDocuments"
	JobTypeCreateInvoice     JobType = "CreateInvoice"
)

func (t JobType) String() string {
	return string(t)
}
