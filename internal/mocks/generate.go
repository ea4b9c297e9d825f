package mocks

//go:generate mockery --name PlanStore --srcpkg github.com/aevon-lab/microbatch/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
