package email

const subjectMatchAlertFmt = "Correspondance à %d%% pour une demande ouverte"
