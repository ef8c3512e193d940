package repoargs

type RepositoryName string

const (
	UserRepoName         RepositoryName = "user"
	PlanRepoName         RepositoryName = "plan"
	TransactionRepoName  RepositoryName = "transaction"
	SystemConfigRepoName RepositoryName = "system_config"
)
