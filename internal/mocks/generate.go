package mocks

//go:generate mockery --name EventStore --srcpkg github.com/aevon-lab/siteflow/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name Queue --srcpkg github.com/aevon-lab/siteflow/internal/queue --output ./queue --outpkg queuemocks --with-expecter
